package user

type UserModel struct {
	Username  string `gorm:"primaryKey;size:25"`
	Password  string `gorm:"not null"`
	FirstName string `gorm:"not null"`
	LastName  string `gorm:"not null"`
	Email     string `gorm:"not null"`
	IsAdmin   bool   `gorm:"not null;default:false"`
}

func (UserModel) TableName() string { return "users" }
