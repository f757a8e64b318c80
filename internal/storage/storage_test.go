package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResumeObject(t *testing.T) {
	assert.Equal(t, "resumes/c1.pdf", ResumeObject("c1", "CV Final.PDF"))
	assert.Equal(t, "resumes/c1.pdf", ResumeObject("c1", "noext"))
}
