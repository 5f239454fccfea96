package model

import (
	"fmt"
	"time"
)

// PatientInfo описывает пациента и его индивидуальную норму показателей.
// Получается из хранилища и далее не изменяется
type PatientInfo struct {
	ID         string `conform:"trim"`
	Name       string `conform:"trim" validate:"required"`
	Surname    string `conform:"trim" validate:"required"`
	Birthday   time.Time
	HealthInfo HealthInfo
}

// String краткое описание
func (m PatientInfo) String() string {
	return fmt.Sprintf("%s %s (%s)", m.Surname, m.Name, m.ID)
}
