package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "", likePattern(""))
	assert.Equal(t, "", likePattern("   "))
	assert.Equal(t, "%asha%", likePattern(" asha "))
	assert.Equal(t, `%50\%\_off\\%`, likePattern(`50%_off\`))
}
