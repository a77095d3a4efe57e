package errors

// Error codes for the state-machine compiler.
//
// Error code ranges:
// E0001-E0099: compilation errors (role selection, handler shape, lowering)
// E0100-E0199: upstream parse errors

const (
	ErrorRoleCount               = "E0001"
	ErrorUnknownRole             = "E0002"
	ErrorUnsupportedBlock        = "E0003"
	ErrorNonTerminalTransition   = "E0004"
	ErrorActionsOutsideTransition = "E0005"
	ErrorComplexTransitionName   = "E0006"
	ErrorMultipleHandlers        = "E0007"
	ErrorVariableOverlap         = "E0008"

	ErrorParse = "E0100"
)

var descriptions = map[string]string{
	ErrorRoleCount:                "project has zero or more than one role and none was named",
	ErrorUnknownRole:              "no role with the given name exists in the project",
	ErrorUnsupportedBlock:         "an AST node has no recognized translation to an atom or action",
	ErrorNonTerminalTransition:    "a transition-shaped statement appears where control could continue past it",
	ErrorActionsOutsideTransition: "effectful statements sit between branching transitions with no place to land",
	ErrorComplexTransitionName:    "a handler hat is not of the form <var> == \"<state>\"",
	ErrorMultipleHandlers:         "two scripts handle the same (state machine, state) pair",
	ErrorVariableOverlap:          "a variable is touched by two state machines, or collides with a machine name",
	ErrorParse:                    "the upstream AST producer failed to parse the source",
}

// GetErrorDescription returns a human-readable description of the error code.
func GetErrorDescription(code string) string {
	if d, ok := descriptions[code]; ok {
		return d
	}
	return "unknown error code"
}
