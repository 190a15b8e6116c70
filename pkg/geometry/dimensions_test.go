package geometry

import "testing"

func TestNewDimensionsPanicsOnNonPositive(t *testing.T) {
	cases := []struct{ w, h int }{{0, 10}, {10, 0}, {-1, 10}, {10, -1}}
	for _, c := range cases {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("NewDimensions(%d, %d) did not panic", c.w, c.h)
				}
			}()
			NewDimensions(c.w, c.h)
		}()
	}
}

func TestAspect(t *testing.T) {
	d := NewDimensions(1920, 1080)
	if got, want := d.Aspect(), 1920.0/1080.0; got != want {
		t.Errorf("Aspect() = %v, want %v", got, want)
	}
}

func TestWithRescaling(t *testing.T) {
	d := NewDimensions(100, 50)

	if got := d.WithRescaling(1.5, Floor); got != (Dimensions{150, 75}) {
		t.Errorf("Floor rescale = %v", got)
	}
	if got := d.WithRescaling(0.333, Ceil); got != (Dimensions{34, 17}) {
		t.Errorf("Ceil rescale = %v", got)
	}
	if got := d.WithRescaling(0.335, Round); got != (Dimensions{34, 17}) {
		t.Errorf("Round rescale = %v", got)
	}
}

func TestWithRescalingNeverProducesZero(t *testing.T) {
	d := NewDimensions(100, 100)
	got := d.WithRescaling(0.001, Floor)
	if got.Width < 1 || got.Height < 1 {
		t.Errorf("WithRescaling produced non-positive side: %v", got)
	}
}

func TestSwapAxes(t *testing.T) {
	d := NewDimensions(1080, 1920)
	swapped := d.SwapAxes()
	if swapped != (Dimensions{Width: 1920, Height: 1080}) {
		t.Errorf("SwapAxes() = %v", swapped)
	}
}
