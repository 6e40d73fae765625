package appointments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeDraft() Draft {
	return Draft{
		Service:       ServiceConsultation,
		PetName:       "Rocky",
		PetSpecies:    "perro",
		VetID:         "vet-1",
		PreferredDate: time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC),
		PreferredSlot: SlotMorning,
		Consent:       true,
	}
}

func TestWizardNextBlockedUntilStepComplete(t *testing.T) {
	w := NewWizard()

	ok, msg := w.Next()
	assert.False(t, ok)
	assert.NotEmpty(t, msg)
	assert.Equal(t, StepService, w.Step())

	w.Draft.Service = ServiceVaccination
	ok, _ = w.Next()
	assert.True(t, ok)
	assert.Equal(t, StepPetDetails, w.Step())
}

func TestWizardWalkAllSteps(t *testing.T) {
	w := NewWizard()
	w.Draft = completeDraft()

	for i := 0; i < 4; i++ {
		ok, msg := w.Next()
		require.True(t, ok, "step %d: %s", i, msg)
	}
	assert.Equal(t, StepSchedule, w.Step())

	// en el último paso Next no pasa de largo
	ok, _ := w.Next()
	assert.True(t, ok)
	assert.Equal(t, StepSchedule, w.Step())
}

func TestWizardBackUnconditional(t *testing.T) {
	w := NewWizard()
	w.Draft.Service = ServiceGrooming
	_, _ = w.Next()
	require.Equal(t, StepPetDetails, w.Step())

	// el paso actual está incompleto y Back igual funciona
	w.Back()
	assert.Equal(t, StepService, w.Step())

	// en el primer paso no hace nada
	w.Back()
	assert.Equal(t, StepService, w.Step())
}

func TestWizardMedicatedRequiresNotes(t *testing.T) {
	w := NewWizard()
	w.Draft = completeDraft()
	w.Draft.Medicated = true

	ok, msg := w.ValidateStep(StepMedicalHistory)
	assert.False(t, ok)
	assert.NotEmpty(t, msg)

	w.Draft.MedicalNotes = "Antibiótico cada 12h"
	ok, _ = w.ValidateStep(StepMedicalHistory)
	assert.True(t, ok)
}

func TestWizardSubmitRequiresEverything(t *testing.T) {
	w := NewWizard()
	w.Draft = completeDraft()
	w.Draft.Consent = false

	_, ok, msg := w.Submit()
	assert.False(t, ok)
	assert.NotEmpty(t, msg)

	w.Draft.Consent = true
	d, ok, _ := w.Submit()
	require.True(t, ok)
	assert.Equal(t, "Rocky", d.PetName)
}

func TestWizardCompleteReportsFirstIncompleteStep(t *testing.T) {
	w := NewWizard()
	w.Draft = completeDraft()
	w.Draft.PetName = ""
	w.Draft.VetID = ""

	ok, step, _ := w.Complete()
	assert.False(t, ok)
	assert.Equal(t, StepPetDetails, step)
}
