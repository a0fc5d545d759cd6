package model

// TaskRequest :
// Describes the task payload transported by the write
// style task requests (and, for the list request, by the
// URL content). All the fields are pointers so that an
// absent field can be told apart from an empty one when
// the payload is validated.
//
// The `ID` identifies the task targeted by an update, a
// patch or a removal.
//
// The `Title`, `Description`, `StartDate` and `DueDate`
// describe the content of the task.
//
// The `Status` and `Priority` carry the labels accepted
// by the API (e.g. "PROGRESS", "HIGH").
//
// The `Page` and `Limit` only make sense for the list
// request and define the pagination to apply.
type TaskRequest struct {
	ID          *int64  `json:"id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	StartDate   *string `json:"startDate"`
	DueDate     *string `json:"dueDate"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	Page        *int    `json:"page"`
	Limit       *int    `json:"limit"`
}

// TaskRequestEnvelope :
// The wrapper under which a task payload travels on the
// wire: `{"TaskRequest": {...}}`.
type TaskRequestEnvelope struct {
	TaskRequest *TaskRequest `json:"TaskRequest"`
}

// ProfileRequest :
// Describes the profile payload transported by the user
// requests. As for the task payload all the fields are
// pointers so that validation can distinguish an absent
// field from an empty one.
type ProfileRequest struct {
	Username    *string `json:"username"`
	Password    *string `json:"password"`
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	OldPassword *string `json:"oldPassword"`
	NewPassword *string `json:"newPassword"`
}

// ProfileRequestEnvelope :
// The wrapper under which a profile payload travels on
// the wire: `{"ProfileRequest": {...}}`.
type ProfileRequestEnvelope struct {
	ProfileRequest *ProfileRequest `json:"ProfileRequest"`
}
