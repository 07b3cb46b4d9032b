package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	n := New()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"meters decimal", "3.5m", "3500"},
		{"meters whole", "6m", "6000"},
		{"centimeters", "30cm", "300"},
		{"millimeter suffix stripped", "300mm", "300"},
		{"inches", "2in", "50.8"},
		{"feet", "2ft", "609.6"},
		{"inch quote mark", `2"`, "50.8"},
		{"cjk meter", "6米", "6000"},
		{"cjk centimeter", "30厘米", "300"},
		{"bare number untouched", "300", "300"},
		{"pair untouched", "300×600", "300×600"},
		{"mixed pair", "0.3m×600mm", "300×600"},
		{"span token", "L=7.2m", "L=7200"},
		{"no unit pass-through", "KL1", "KL1"},
		{"unknown unit left alone", "300px", "300px"},
		{"unit inside sentence", "梁高600mm 宽300mm", "梁高600 宽300"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := New()
	inputs := []string{"3.5m", "300mm", "KL1 300×600", "φ500", "2-5层", "30cm厚", `6'`}
	for _, in := range inputs {
		once := n.Normalize(in)
		assert.Equal(t, once, n.Normalize(once), "normalize must be idempotent for %q", in)
	}
}
