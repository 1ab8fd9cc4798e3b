package config

const SourceFileExt = ".rv"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".rv", ".ruvy"}

// MaxEvalDepth bounds interpreter recursion before StackOverflow.
const MaxEvalDepth = 10000

// DefaultMailboxCapacity bounds actor mailboxes unless overridden.
const DefaultMailboxCapacity = 1000

// IsTestMode indicates the program runs under the test command. Set
// once at startup.
var IsTestMode = false

// Environment variables read at startup.
const (
	EnvBackend = "RUVY_BACKEND" // "treewalk" (default) or "vm"
	EnvDebug   = "RUVY_DEBUG"
	EnvHistory = "RUVY_HISTORY" // REPL history database path
	EnvNoColor = "NO_COLOR"
)

// Built-in function names shared by the interpreter and transpiler.
const (
	PrintFuncName   = "print"
	PrintlnFuncName = "println"
	LenFuncName     = "len"
	TypeOfFuncName  = "type_of"
)
