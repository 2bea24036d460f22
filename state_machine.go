package authkit

// ActionType enumerates the transitions the session state machine accepts.
type ActionType string

const (
	ActionAuthStart   ActionType = "AUTH_START"
	ActionAuthSuccess ActionType = "AUTH_SUCCESS"
	ActionAuthError   ActionType = "AUTH_ERROR"
	ActionAuthLogout  ActionType = "AUTH_LOGOUT"
	ActionClearError  ActionType = "CLEAR_ERROR"
)

// Action is a tagged transition request. Identity is set only for
// AUTH_SUCCESS, Message only for AUTH_ERROR.
type Action struct {
	Type     ActionType
	Identity *Identity
	Message  string
}

// AuthStart marks a flow as in flight and clears any stale error.
func AuthStart() Action {
	return Action{Type: ActionAuthStart}
}

// AuthSuccess resolves a flow with the authenticated identity.
func AuthSuccess(identity *Identity) Action {
	return Action{Type: ActionAuthSuccess, Identity: identity}
}

// AuthError resolves a flow with a user facing failure message.
func AuthError(message string) Action {
	return Action{Type: ActionAuthError, Message: message}
}

// AuthLogout drops the authenticated identity.
func AuthLogout() Action {
	return Action{Type: ActionAuthLogout}
}

// ClearError dismisses the current error without touching anything else.
func ClearError() Action {
	return Action{Type: ActionClearError}
}

// State is the canonical session snapshot consumers read.
// Invariant: IsAuthenticated == (User != nil) after every transition.
type State struct {
	User            *Identity `json:"user"`
	IsAuthenticated bool      `json:"isAuthenticated"`
	IsLoading       bool      `json:"isLoading"`
	Error           string    `json:"error,omitempty"`
}

// InitialState is the unauthenticated, idle snapshot the machine starts from.
func InitialState() State {
	return State{}
}

// Reduce applies action to state and returns the next state. It is pure and
// total: unknown action types return state unchanged, and the same inputs
// always produce the same output. All I/O lives in the flows that dispatch
// into it.
func Reduce(state State, action Action) State {
	switch action.Type {
	case ActionAuthStart:
		state.IsLoading = true
		state.Error = ""
		return state
	case ActionAuthSuccess:
		state.IsLoading = false
		state.IsAuthenticated = true
		state.User = action.Identity
		state.Error = ""
		return state
	case ActionAuthError:
		state.IsLoading = false
		state.IsAuthenticated = false
		state.User = nil
		state.Error = action.Message
		return state
	case ActionAuthLogout:
		state.IsAuthenticated = false
		state.User = nil
		state.Error = ""
		return state
	case ActionClearError:
		state.Error = ""
		return state
	default:
		return state
	}
}
