package requests

// ContinueConversationRequest drives one generation round.
type ContinueConversationRequest struct {
	CaseID    uint  `json:"case_id" binding:"required"`
	TreeID    uint  `json:"tree_id" binding:"required"`
	MessageID *uint `json:"message_id"`
	Refresh   bool  `json:"refresh"`
}

// CreateMessageRequest inserts a custom reply into the tree. Custom replies
// are selected on creation: the user already chose them by typing them.
type CreateMessageRequest struct {
	SimulationID uint   `json:"simulation_id" binding:"required"`
	ParentID     *uint  `json:"parent_id"`
	Content      string `json:"content" binding:"required"`
	Role         string `json:"role" binding:"required"`
}

// SummarizedMessageRequest inserts a reply condensed from free-form input.
type SummarizedMessageRequest struct {
	SimulationID  uint   `json:"simulation_id" binding:"required"`
	ParentID      *uint  `json:"parent_id"`
	UserInput     string `json:"user_input" binding:"required"`
	Role          string `json:"role" binding:"required"`
	DesiredLength int    `json:"desired_length"`
}

// CreateCaseRequest opens a new legal case.
type CreateCaseRequest struct {
	Name    string  `json:"name" binding:"required"`
	PartyA  string  `json:"party_a"`
	PartyB  string  `json:"party_b"`
	Context *string `json:"context"`
}

// UpdateCaseRequest patches a case's background; nil fields stay untouched.
type UpdateCaseRequest struct {
	PartyA       *string `json:"party_a"`
	PartyB       *string `json:"party_b"`
	KeyIssues    *string `json:"key_issues"`
	GeneralNotes *string `json:"general_notes"`
}

// CreateSimulationRequest starts a new negotiation run against a case.
type CreateSimulationRequest struct {
	Headline string `json:"headline" binding:"required"`
	Brief    string `json:"brief" binding:"required"`
	CaseID   uint   `json:"case_id" binding:"required"`
}

// CreateBookmarkRequest pins a message inside a simulation.
type CreateBookmarkRequest struct {
	SimulationID uint   `json:"simulation_id" binding:"required"`
	MessageID    uint   `json:"message_id" binding:"required"`
	Name         string `json:"name" binding:"required"`
}
