package model

type Clinic struct {
	Base
	Name    string `db:"name" json:"name"`
	Address string `db:"address" json:"address"`
	Phone   string `db:"phone" json:"phone"`
	Email   string `db:"email" json:"email"`
}

type UpdateClinicRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" binding:"omitempty,email"`
}

// ClinicStats are the headline counts for the clinic settings page.
type ClinicStats struct {
	Animals      int `db:"animals" json:"animals"`
	Owners       int `db:"owners" json:"owners"`
	Users        int `db:"users" json:"users"`
	Appointments int `db:"appointments" json:"appointments"`
}
