package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeSheetName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"events", "events"},
		{"a:b\\c/d?e*f[g]h", "a_b_c_d_e_f_g_h"},
		{"", "Sheet"},
		{strings.Repeat("x", 40), strings.Repeat("x", 31)},
		{strings.Repeat("é", 40), strings.Repeat("é", 31)},
		{"Señal: 2024", "Señal_ 2024"},
		{"'quoted'", "_quoted_"},
		{"it's", "it's"},
		{"'", "_"},
		{strings.Repeat("z", 30) + "'tail", strings.Repeat("z", 30) + "_"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeSheetName(tt.in))
		})
	}
}

func TestSheetNamer(t *testing.T) {
	n := newSheetNamer("Summary")
	assert.Equal(t, "events", n.next("events"))
	assert.Equal(t, "Events1", n.next("Events"))
	assert.Equal(t, "events2", n.next("events"))
	assert.Equal(t, "summary1", n.next("summary"))
	assert.Equal(t, "Sheet", n.next(""))
	assert.Equal(t, "Sheet1", n.next(""))

	assert.Equal(t, "_quoted_", n.next("'quoted'"))
	assert.Equal(t, "_quoted_1", n.next("_quoted_"))

	long := strings.Repeat("y", 35)
	assert.Equal(t, strings.Repeat("y", 31), n.next(long))
	assert.Equal(t, strings.Repeat("y", 30)+"1", n.next(long))
}
