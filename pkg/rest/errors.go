package rest

import "fmt"

// ErrorKey :
// Identifies one of the failure conditions that the API is able
// to report to a client. Each key maps to a fixed numeric code
// and a message key in the error table below. Keys are the unit
// of failure propagated between the layers of the application
// until a response can be rendered.
type ErrorKey string

// The set of failure conditions known to the API. The first
// block mirrors transport level failures while the 1xxx range
// enumerates specific validation failures.
const (
	ResNotFound             ErrorKey = "RESNOTFOUND"
	OpNotAllowed            ErrorKey = "OPNOTALLOWED"
	InternalErr             ErrorKey = "INTERNALERR"
	BadRequest              ErrorKey = "BADREQUEST"
	InvalidCred             ErrorKey = "INVALIDCRED"
	InvalidToken            ErrorKey = "INVALIDTOKEN"
	InvalidTitleLen         ErrorKey = "INVALIDTITLELEN"
	InvalidDescLen          ErrorKey = "INVALIDDESCLEN"
	InvalidStartDate        ErrorKey = "INVALIDSTARTDATE"
	InvalidDueDate          ErrorKey = "INVALIDDUEDATE"
	DueGreaterThanStartDate ErrorKey = "DUEGREATERSTARTDATE"
	InvalidTaskID           ErrorKey = "INVALIDTASKID"
	InvalidPriorityVal      ErrorKey = "INVALIDPRIORITYVAL"
	InvalidTaskStatus       ErrorKey = "INVALIDTASKSTATUS"
	InvalidFirstNameLen     ErrorKey = "INVALIDFIRSTNAMELEN"
	InvalidLastNameLen      ErrorKey = "INVALIDLASTNAMELEN"
	InvalidPassLen          ErrorKey = "INVALIDPASSLEN"
	InvalidUsernameLen      ErrorKey = "INVALIDUSERNAMELEN"
	UsernameTaken           ErrorKey = "USERNAMETAKEN"
	InvalidOldPassLen       ErrorKey = "INVALIDOLDPASSLEN"
	InvalidNewPassLen       ErrorKey = "INVALIDNEWPASSLEN"
	InvalidOldPass          ErrorKey = "INVALIDOLDPASS"
	InvalidPageVal          ErrorKey = "INVALIDPAGEVAL"
)

// ErrorDesc :
// Gathers the client facing description of a failure condition.
//
// The `Code` is a numeric string identifying the failure. Codes
// below 1000 match the HTTP status they are usually served with
// while the 1xxx range enumerates application level validation
// failures.
//
// The `Message` is a message key that a client can feed to its
// own translation catalog.
type ErrorDesc struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorTable :
// The fixed association between an error key and its client
// facing description. Built once and never mutated.
var errorTable = map[ErrorKey]ErrorDesc{
	ResNotFound:             {"404", "api.response.error.not_found"},
	OpNotAllowed:            {"405", "api.response.error.operation_not_allowed"},
	InternalErr:             {"500", "api.response.error.internal_err"},
	BadRequest:              {"400", "api.response.error.bad_request"},
	InvalidCred:             {"1001", "api.response.error.invalid_cred"},
	InvalidToken:            {"1002", "api.response.error.invalid_token"},
	InvalidTitleLen:         {"1003", "api.response.error.invalid_title_len"},
	InvalidDescLen:          {"1004", "api.response.error.invalid_desc_len"},
	InvalidStartDate:        {"1005", "api.response.error.invalid_start_date"},
	InvalidDueDate:          {"1006", "api.response.error.invalid_due_date"},
	DueGreaterThanStartDate: {"1007", "api.response.error.due_greater_start_date"},
	InvalidTaskID:           {"1008", "api.response.error.invalid_task_id"},
	InvalidPriorityVal:      {"1009", "api.response.error.invalid_priority_val"},
	InvalidTaskStatus:       {"1010", "api.response.error.invalid_task_status"},
	InvalidFirstNameLen:     {"1011", "api.response.error.invalid_first_name_len"},
	InvalidLastNameLen:      {"1012", "api.response.error.invalid_last_name_len"},
	InvalidPassLen:          {"1013", "api.response.error.invalid_pass_len"},
	InvalidUsernameLen:      {"1014", "api.response.error.invalid_username_len"},
	UsernameTaken:           {"1015", "api.response.error.username_taken"},
	InvalidOldPassLen:       {"1016", "api.response.error.invalid_old_pass_len"},
	InvalidNewPassLen:       {"1017", "api.response.error.invalid_new_pass_len"},
	InvalidOldPass:          {"1018", "api.response.error.invalid_old_pass"},
	InvalidPageVal:          {"1019", "api.response.error.invalid_page_val"},
}

// Describe :
// Fetches the client facing description associated to the input
// error key. Unknown keys fall back to the description of an
// internal error so that a response can always be produced.
//
// The `key` defines the failure condition to describe.
//
// Returns the description registered for this key.
func Describe(key ErrorKey) ErrorDesc {
	desc, ok := errorTable[key]
	if !ok {
		return errorTable[InternalErr]
	}

	return desc
}

// Error :
// The unit of failure propagated between the layers of the app.
// It carries the HTTP status to answer with along with the key
// indexing the fixed error table. Layers either handle such an
// error themselves or pass it up unchanged until the dispatcher
// renders it.
//
// The `Status` defines the HTTP status code to answer with.
//
// The `Key` indexes the fixed error table.
type Error struct {
	Status int
	Key    ErrorKey
}

// Error :
// Implementation of the `error` interface.
func (e Error) Error() string {
	return fmt.Sprintf("api error %s (status: %d)", string(e.Key), e.Status)
}

// NewError :
// Convenience wrapper to build an error record from a status
// and a key.
//
// The `status` defines the HTTP status code to answer with.
//
// The `key` indexes the fixed error table.
//
// Returns the built-in error record.
func NewError(status int, key ErrorKey) Error {
	return Error{
		Status: status,
		Key:    key,
	}
}
