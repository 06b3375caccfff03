package model

import "time"

// Student is an Alumno account. The engine addresses students by Usuario,
// the identity the bearer token carries.
type Student struct {
	ID                int       `json:"id"`
	Usuario           string    `json:"usuario"`
	Correo            string    `json:"correo"`
	Nombre            string    `json:"nombre"`
	PasswordHash      string    `json:"-"`
	CodigoInstitucion string    `json:"codigoInstitucion"`
	CreatedAt         time.Time `json:"createdAt"`
}

// LoginRequest is the credential payload shared by student and teacher login.
type LoginRequest struct {
	Usuario    string `json:"usuario" binding:"required,min=3,max=100"`
	Contrasena string `json:"contrasena" binding:"required,min=4,max=128"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token string `json:"token"`
}
