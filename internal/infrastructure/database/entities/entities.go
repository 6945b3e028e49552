package entities

import "time"

// Case models a legal case: two parties, a JSON background blob and a
// generated summary.
type Case struct {
	ID           uint      `gorm:"primaryKey"`
	Name         string    `gorm:"type:text;not null"`
	PartyA       *string   `gorm:"type:text"`
	PartyB       *string   `gorm:"type:text"`
	Context      *string   `gorm:"type:text"`
	Summary      *string   `gorm:"type:text"`
	LastModified time.Time `gorm:"autoUpdateTime"`
}

func (Case) TableName() string {
	return "cases"
}

// Simulation groups the messages of one negotiation run against a case.
type Simulation struct {
	ID        uint      `gorm:"primaryKey"`
	Headline  string    `gorm:"type:text;not null"`
	Brief     string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	CaseID    uint      `gorm:"not null;index"`
	Case      *Case     `gorm:"foreignKey:CaseID;constraint:OnDelete:CASCADE"`
}

func (Simulation) TableName() string {
	return "simulations"
}

// Message is one node of a simulation's dialogue tree. The bigserial id
// doubles as creation order; parent rows always have smaller ids.
type Message struct {
	ID           uint        `gorm:"primaryKey"`
	Content      string      `gorm:"type:text;not null"`
	Role         string      `gorm:"type:varchar(16);not null"`
	Selected     bool        `gorm:"not null;default:false"`
	SimulationID uint        `gorm:"not null;index"`
	Simulation   *Simulation `gorm:"foreignKey:SimulationID;constraint:OnDelete:CASCADE"`
	ParentID     *uint       `gorm:"index"`
	Parent       *Message    `gorm:"foreignKey:ParentID"`
}

func (Message) TableName() string {
	return "messages"
}

// Bookmark is a named pointer at one message, unique per simulation/message
// pair. It goes away with either side of the pointer.
type Bookmark struct {
	ID           uint        `gorm:"primaryKey"`
	SimulationID uint        `gorm:"not null;uniqueIndex:idx_bookmarks_simulation_message"`
	Simulation   *Simulation `gorm:"foreignKey:SimulationID;constraint:OnDelete:CASCADE"`
	MessageID    uint        `gorm:"not null;uniqueIndex:idx_bookmarks_simulation_message"`
	Message      *Message    `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE"`
	Name         string      `gorm:"type:varchar(255);not null"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}

// Document is an uploaded exhibit attached to a case.
type Document struct {
	ID       uint   `gorm:"primaryKey"`
	FileName string `gorm:"type:text;not null"`
	FileData []byte `gorm:"type:bytea;not null"`
	CaseID   uint   `gorm:"not null;index"`
	Case     *Case  `gorm:"foreignKey:CaseID;constraint:OnDelete:CASCADE"`
}

func (Document) TableName() string {
	return "documents"
}
