package entity

import "time"

// Project proyecto único del módulo de requerimientos.
// NextRequirementNumber solo crece: los números de requerimientos borrados no se reutilizan.
type Project struct {
	ID                    string
	Name                  string
	NextRequirementNumber int
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
