package resume

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `Jane Doe
Backend Engineer
jane.doe+jobs@example.com | +62 812-3456-7890
github.com/janedoe  https://www.linkedin.com/in/jane-doe
leetcode.com/janed

Experience 2019 - 2023
Built REST services in Python (FastAPI) and Go on PostgreSQL.
Shipped Node.js workers, Docker, Kubernetes. Machine Learning with PyTorch.`

func TestParse(t *testing.T) {
	p := Parse(sample)

	assert.Equal(t, "Jane Doe", p.Name)
	assert.Equal(t, "jane.doe+jobs@example.com", p.Email)
	assert.Equal(t, "+62 812-3456-7890", p.Phone)
	assert.Equal(t, "https://github.com/janedoe", p.GithubURL)
	assert.Equal(t, "https://www.linkedin.com/in/jane-doe", p.LinkedinURL)
	assert.Equal(t, map[string]string{"leetcode": "https://leetcode.com/janed"}, p.CodingPlatforms)
	assert.Equal(t, sample, p.Text)

	for _, s := range []string{"python", "fastapi", "go", "postgresql", "node.js", "docker", "kubernetes", "machine-learning", "pytorch", "rest"} {
		assert.Contains(t, p.Skills, s)
	}
	assert.IsIncreasing(t, p.Skills)
}

func TestSkillsTrailingPunctuation(t *testing.T) {
	assert.Equal(t, []string{"python", "sql"}, Skills("Expert in SQL, and python."))
	assert.Empty(t, Skills("nothing relevant here"))
}

func TestNameFallback(t *testing.T) {
	assert.Equal(t, "Unknown Candidate", Name("jane@example.com\n+1 555 0100 222\n"))
}

func TestPhoneIgnoresYears(t *testing.T) {
	assert.Empty(t, Phone("Worked 2019 - 2023 at Acme"))
	assert.Equal(t, "+14155552671", Phone("call +14155552671 today"))
}

func TestExtractRejectsNonPDF(t *testing.T) {
	_, err := NewKeywordExtractor().Extract(context.Background(), []byte("plain text, not a pdf"))
	require.Error(t, err)
}
