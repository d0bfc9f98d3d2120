// Package all registers every result store backend with the factory registry.
// Blank-import it from a main package to make all kinds selectable at runtime.
package all

import (
	_ "csvrecon/internal/resultstore/mssql"
	_ "csvrecon/internal/resultstore/postgres"
	_ "csvrecon/internal/resultstore/sqlite"
)
