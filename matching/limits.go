package matching

// maxPriceLevels limits size of a single price ladder side.
const maxPriceLevels = 1 << 24

// Limits contains just 3 numbers (min, max and step) and describes the price ladder of an order book.
// Ladder has a price level for every price min + i*step not greater than max.
type Limits struct {
	Min  Uint
	Max  Uint
	Step Uint
}

// NewLimits creates limits of the ladder with given amount of price levels.
func NewLimits(min Uint, step Uint, levels int) Limits {
	max := min
	if levels > 1 {
		max = min.Add(step.Mul64(uint64(levels - 1)))
	}
	return Limits{
		Min:  min,
		Max:  max,
		Step: step,
	}
}

// DefaultLimits returns ladder [50.0, 100.0] with 0.1 step.
func DefaultLimits() Limits {
	min, _ := NewUintFromFloatString(defaultMinPrice)
	step, _ := NewUintFromFloatString(defaultTickSize)
	return NewLimits(min, step, defaultPriceLevels)
}

func (l Limits) Valid() bool {
	if l.Min.GreaterThan(l.Max) {
		return false
	}

	if l.Step.IsZero() {
		return false
	}

	steps, _ := l.Max.Sub(l.Min).QuoRem(l.Step)
	return steps.LessThan(NewUint(maxPriceLevels))
}

// Levels returns amount of price levels in the ladder.
func (l Limits) Levels() int {
	steps, _ := l.Max.Sub(l.Min).QuoRem(l.Step)
	return int(steps.Uint64()) + 1
}

// Index returns index of the price level for the price.
// Price is rounded to the nearest level (half rounds up), prices outside [min, max] have no level.
func (l Limits) Index(price Uint) (int, bool) {
	if price.LessThan(l.Min) || price.GreaterThan(l.Max) {
		return 0, false
	}

	steps, rem := price.Sub(l.Min).QuoRem(l.Step)
	index := int(steps.Uint64())
	if rem.Add(rem).GreaterThanOrEqualTo(l.Step) {
		index++
	}
	// max which is not aligned to the step could round beyond the last level
	if levels := l.Levels(); index >= levels {
		index = levels - 1
	}

	return index, true
}

// Price returns price of the price level with given index.
func (l Limits) Price(index int) Uint {
	return l.Min.Add(l.Step.Mul64(uint64(index)))
}

// Align returns price of the price level the price belongs to.
func (l Limits) Align(price Uint) (Uint, bool) {
	index, ok := l.Index(price)
	if !ok {
		return Uint{}, false
	}
	return l.Price(index), true
}
