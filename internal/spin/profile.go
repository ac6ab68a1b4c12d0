package spin

// WheelProfile scales how many extra full turns a wheel spin makes.
type WheelProfile string

const (
	WheelGentle WheelProfile = "gentle"
	WheelNormal WheelProfile = "normal"
	WheelWild   WheelProfile = "wild"
)

// Multiplier returns the extra-turn multiplier for the profile.
func (p WheelProfile) Multiplier() float64 {
	switch p {
	case WheelGentle:
		return 0.8
	case WheelWild:
		return 1.2
	default:
		return 1.0
	}
}

// ParseWheelProfile maps a request string onto a profile, defaulting to
// normal for empty or unknown values.
func ParseWheelProfile(s string) WheelProfile {
	switch WheelProfile(s) {
	case WheelGentle, WheelNormal, WheelWild:
		return WheelProfile(s)
	default:
		return WheelNormal
	}
}

// SlotProfile selects how the reels stop. Normal and fast stop every reel
// at the spin duration (fast only quickens the cosmetic tick cadence);
// progressive staggers each reel by a configured delay.
type SlotProfile string

const (
	SlotNormal      SlotProfile = "normal"
	SlotFast        SlotProfile = "fast"
	SlotProgressive SlotProfile = "progressive"
)

// ParseSlotProfile maps a request string onto a profile, defaulting to
// normal for empty or unknown values.
func ParseSlotProfile(s string) SlotProfile {
	switch SlotProfile(s) {
	case SlotNormal, SlotFast, SlotProgressive:
		return SlotProfile(s)
	default:
		return SlotNormal
	}
}

// tickDivisor controls the cosmetic tick cadence per slot profile.
func (p SlotProfile) tickDivisor() int {
	if p == SlotFast {
		return 2
	}
	return 1
}
