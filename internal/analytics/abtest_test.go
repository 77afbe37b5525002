package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetermineWinner(t *testing.T) {
	tests := []struct {
		name string
		a    Metrics
		b    Metrics
		want Winner
	}{
		{
			name: "no click activity falls back to open rate",
			a:    Metrics{OpenRate: 25.5, ClickRate: 0.4},
			b:    Metrics{OpenRate: 18.0, ClickRate: 0.9},
			want: WinnerA,
		},
		{
			name: "no click activity equal open rates tie",
			a:    Metrics{OpenRate: 20.0, ClickRate: 0.2},
			b:    Metrics{OpenRate: 20.0},
			want: WinnerTie,
		},
		{
			name: "sub-one percent click rates still count as no activity",
			a:    Metrics{OpenRate: 10.0, ClickRate: 0.99},
			b:    Metrics{OpenRate: 30.0, ClickRate: 0.99},
			want: WinnerB,
		},
		{
			name: "click and conversion both favor A",
			a:    Metrics{ClickRate: 5.0, ConversionRate: 10.0},
			b:    Metrics{ClickRate: 2.0, ConversionRate: 4.0},
			want: WinnerA,
		},
		{
			name: "split points tie even when open rate differs",
			a:    Metrics{OpenRate: 50.0, ClickRate: 5.0, ConversionRate: 2.0},
			b:    Metrics{OpenRate: 10.0, ClickRate: 2.0, ConversionRate: 8.0},
			want: WinnerTie,
		},
		{
			name: "conversion breaks equal click rates",
			a:    Metrics{ClickRate: 3.0, ConversionRate: 1.0},
			b:    Metrics{ClickRate: 3.0, ConversionRate: 7.0},
			want: WinnerB,
		},
		{
			name: "one variant with click activity wins on points",
			a:    Metrics{ClickRate: 1.5, ConversionRate: 0},
			b:    Metrics{ClickRate: 0.5, ConversionRate: 0},
			want: WinnerA,
		},
		{
			name: "identical zero vectors tie",
			a:    Metrics{},
			b:    Metrics{},
			want: WinnerTie,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineWinner(tt.a, tt.b))
		})
	}
}

func TestDetermineWinnerSymmetric(t *testing.T) {
	a := Metrics{ClickRate: 4.2, ConversionRate: 1.0}
	b := Metrics{ClickRate: 1.1, ConversionRate: 0.5}

	assert.Equal(t, WinnerA, DetermineWinner(a, b))
	assert.Equal(t, WinnerB, DetermineWinner(b, a))
}
