package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractStateCanResubmit(t *testing.T) {
	assert.True(t, ExtractStateNone.CanResubmit())
	assert.True(t, ExtractStateError.CanResubmit())
	assert.True(t, ExtractStateDone.CanResubmit())
	assert.False(t, ExtractStatePending.CanResubmit())
	assert.False(t, ExtractStateProcessing.CanResubmit())
}

func TestApplicantHasConventionalName(t *testing.T) {
	assert.True(t, (&Applicant{Name: ""}).HasConventionalName())
	assert.True(t, (&Applicant{Name: "John Doe's Application"}).HasConventionalName())
	assert.False(t, (&Applicant{Name: "Q3 Backend Search"}).HasConventionalName())
}
