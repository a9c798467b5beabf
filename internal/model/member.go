package model

// Member represents a registered member of the directory.
//
// Password is stored and compared verbatim. This is a known weakness kept
// for behavioral compatibility with the system this replaces; do not switch
// to hashing without changing the login and profile-edit contract.
type Member struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	Username  string  `json:"username" gorm:"uniqueIndex;size:255;not null"`
	Email     string  `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Password  string  `json:"-" gorm:"size:255;not null"`
	Phone     *string `json:"phone,omitempty" gorm:"size:50"`
	Birthdate *string `json:"birthdate,omitempty" gorm:"size:10"`
}

// TableName keeps the legacy table name.
func (Member) TableName() string {
	return "members"
}
