package matching

const (
	// defaultPoolChunkSize specifies amount of order slots allocated at once by the pool allocator.
	defaultPoolChunkSize = 1 << 20

	// defaultIndexCapacity specifies initial capacity of the order index of each order book.
	defaultIndexCapacity = 1024

	// defaultMinPrice, defaultTickSize and defaultPriceLevels describe default price ladder: [50.0, 100.0] with 0.1 step.
	defaultMinPrice    = "50"
	defaultTickSize    = "0.1"
	defaultPriceLevels = 501
)
