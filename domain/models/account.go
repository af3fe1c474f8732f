package models

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Account is a system identity. The password column holds a bcrypt hash and
// is never serialized.
type Account struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Password string `gorm:"size:255" json:"-"`
	Role     Role   `gorm:"type:varchar(10)" json:"role"`
	Name     string `gorm:"size:100" json:"name"`
	Email    string `gorm:"size:100" json:"email"`

	// Deleting an account cascades to its face registrations. Entry history
	// deliberately carries no foreign key: imported rows use the sentinel
	// account id, which no account row backs.
	Faces []RegisteredFace `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Account) TableName() string {
	return "tbl_account"
}

// ImporterAccountID is the sentinel account used by the bulk importer. It is
// an external convention shared with the frontend; no row is guaranteed to
// exist for it.
const ImporterAccountID int64 = -1
