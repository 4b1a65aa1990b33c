package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPreservesOrder(t *testing.T) {
	text := "Sure! [ADD_MEDICINE: Aspirin|10] and also [ADD_MEDICINE: Nurofen|5] done. [REMOVE_MEDICINE: Paracetamol]"

	raws := Extract(text)
	require.Len(t, raws, 3)
	assert.Equal(t, KindAddMedicine, raws[0].Kind)
	assert.Equal(t, "Aspirin|10", raws[0].Body)
	assert.Equal(t, KindAddMedicine, raws[1].Kind)
	assert.Equal(t, "Nurofen|5", raws[1].Body)
	assert.Equal(t, KindRemoveMedicine, raws[2].Kind)
	assert.Equal(t, "Paracetamol", raws[2].Body)
}

func TestExtractIgnoresUnknownAndMalformed(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"unknown kind", "[DROP_TABLE: users] nothing here", 0},
		{"unterminated bracket", "[ADD_MEDICINE: Aspirin|10", 0},
		{"lowercase keyword", "[add_medicine: Aspirin]", 0},
		{"empty body", "[ADD_MEDICINE:]", 0},
		{"no tags at all", "Take two aspirin and call me in the morning.", 0},
		{"valid next to unterminated", "[ADD_MEDICINE: Aspirin|1] [REMOVE_MEDICINE: oops", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, Extract(tt.text), tt.want)
		})
	}
}

func TestExtractNonGreedyAcrossBrackets(t *testing.T) {
	raws := Extract("[ADD_MEDICINE: Aspirin|10] text [ADD_MEDICINE: Ibuprofen|3]")
	require.Len(t, raws, 2)
	assert.Equal(t, "Aspirin|10", raws[0].Body)
	assert.Equal(t, "Ibuprofen|3", raws[1].Body)
}

func TestExtractDoesNotCrossNewlines(t *testing.T) {
	raws := Extract("[ADD_MEDICINE: Aspirin\n|10]")
	assert.Empty(t, raws)
}

func TestStripRemovesRecognizedTags(t *testing.T) {
	got := Strip("Added! [ADD_MEDICINE: X|1] Take care.")
	assert.Equal(t, "Added!  Take care.", got)
}

func TestStripTrimsSurroundingWhitespace(t *testing.T) {
	got := Strip("[CREATE_CABINET: Mom]\nCabinet created for your mom.\n[ADD_MEDICINE: Paracetamol|5]")
	assert.Equal(t, "Cabinet created for your mom.", got)
}

func TestStripLeavesMalformedTagsInPlace(t *testing.T) {
	text := "Hello [ADD_MEDICINE: broken"
	assert.Equal(t, text, Strip(text))
}

func TestStripAllKinds(t *testing.T) {
	text := "a [ADD_MEDICINE: x|1] b [REMOVE_MEDICINE: x] c [ADD_FAMILY: Ann|30] d " +
		"[ADD_REMINDER: |x|08:00] e [SHARE_ACCESS: @bob|brother] f " +
		"[CREATE_CABINET: Mom] g [SWITCH_CABINET: Mom] h"
	assert.Equal(t, "a  b  c  d  e  f  g  h", Strip(text))
}
