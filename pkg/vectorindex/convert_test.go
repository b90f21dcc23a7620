package vectorindex

import (
	"testing"

	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
)

func TestToMatchConditionDispatchesByValueType(t *testing.T) {
	assert.Equal(t, qdrant.NewMatch("f", "v"), toMatchCondition("f", "v"))
	assert.Equal(t, qdrant.NewMatchBool("f", true), toMatchCondition("f", true))
	assert.Equal(t, qdrant.NewMatchInt("f", 42), toMatchCondition("f", 42))
	assert.Equal(t, qdrant.NewMatchInt("f", 42), toMatchCondition("f", float64(42)))
	assert.Equal(t, qdrant.NewMatch("f", "3.5"), toMatchCondition("f", 3.5))
}
