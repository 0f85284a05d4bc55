package models

import "time"

// Domain models matching the tables created from db/migrations.

// Role is the access profile stored in usuarios.tipo_usuario.
type Role string

const (
	RoleAdministrator Role = "administrador"
	RoleCaregiver     Role = "enfermeiro"
	RoleRegularUser   Role = "usuario_comum"
)

// Valid reports whether r is one of the roles accepted by storage.
func (r Role) Valid() bool {
	switch r {
	case RoleAdministrator, RoleCaregiver, RoleRegularUser:
		return true
	}
	return false
}

type User struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"nome"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"senha_hash"`
	Role         Role      `json:"role" db:"tipo_usuario"`
	Active       bool      `json:"active" db:"ativo"`
	CreatedAt    time.Time `json:"created_at" db:"criado_em"`
	UpdatedAt    time.Time `json:"updated_at" db:"atualizado_em"`
}

// NewUser carries the plaintext password of an account being created.
// It is hashed before it reaches storage.
type NewUser struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required"`
	Role     Role   `json:"role" validate:"required,oneof=administrador enfermeiro usuario_comum"`
}

type Guardian struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"nome" validate:"required,max=100"`
	Phone        string    `json:"phone,omitempty" db:"telefone" validate:"max=20"`
	Email        string    `json:"email,omitempty" db:"email" validate:"omitempty,email,max=100"`
	Relationship string    `json:"relationship,omitempty" db:"parentesco" validate:"max=50"`
	Address      string    `json:"address,omitempty" db:"endereco"`
	CreatedAt    time.Time `json:"created_at" db:"criado_em"`
}

// Resident is an elderly person under care. The Guardian* fields are only
// populated by reads that join responsaveis and stay nil when no guardian is linked.
type Resident struct {
	ID         int64     `json:"id" db:"id"`
	FullName   string    `json:"full_name" db:"nome_completo" validate:"required,max=150"`
	Age        int       `json:"age" db:"idade" validate:"gte=0"`
	Document   string    `json:"document" db:"documento" validate:"required,max=20"`
	PhotoPath  string    `json:"photo_path,omitempty" db:"foto_path" validate:"max=255"`
	GuardianID *int64    `json:"guardian_id,omitempty" db:"responsavel_id"`
	Notes      string    `json:"notes,omitempty" db:"observacoes"`
	Active     bool      `json:"active" db:"ativo"`
	CreatedAt  time.Time `json:"created_at" db:"criado_em"`
	UpdatedAt  time.Time `json:"updated_at" db:"atualizado_em"`

	GuardianName  *string `json:"guardian_name,omitempty"`
	GuardianPhone *string `json:"guardian_phone,omitempty"`
	GuardianEmail *string `json:"guardian_email,omitempty"`
}

// Condition values for personal items; storage defaults to ConditionGood.
const (
	ConditionGood   = "bom"
	DefaultQuantity = 1
)

type Item struct {
	ID          int64     `json:"id" db:"id"`
	ResidentID  int64     `json:"resident_id" db:"idoso_id"`
	Name        string    `json:"name" db:"nome_item" validate:"required,max=100"`
	Description string    `json:"description,omitempty" db:"descricao"`
	Category    string    `json:"category,omitempty" db:"categoria" validate:"max=50"`
	Quantity    int       `json:"quantity" db:"quantidade" validate:"gte=0"`
	Condition   string    `json:"condition" db:"estado_conservacao" validate:"max=20"`
	CreatedAt   time.Time `json:"created_at" db:"criado_em"`
}
