package enums

// Process exit codes of the tasksubmit command.
const (
	ExitOK            = 0
	ExitUnexpected    = 1
	ExitUsage         = 2
	ExitConnection    = 3
	ExitDeclaration   = 4
	ExitPublish       = 5
	ExitSerialization = 6
)
