package core

// Comment is a single normalized danmaku from the recording. Timestamps are
// epoch seconds as written by the exporter (fractional part preserved).
type Comment struct {
	Text string
	UID  string
	User string
	Ts   float64
}

// Gift is a normalized gift record. Superchats arrive as gifts whose
// GiftName equals the configured superchat category.
type Gift struct {
	Text     string // optional attached message (superchats carry one)
	UID      string
	User     string
	Price    float64 // unit price in minor currency units
	Num      int
	GiftName string
	Ts       float64
}

// Value is the total worth of the record.
func (g Gift) Value() float64 { return g.Price * float64(g.Num) }

// Category is the sentiment class assigned to an effective comment.
type Category int

const (
	Neutral Category = iota
	Positive
	Negative
)

func (c Category) String() string {
	switch c {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "neutral"
	}
}

// CategoryFor maps a score in [0,1] onto a Category. Equality with either
// threshold lands on Neutral.
func CategoryFor(score, positiveThreshold, negativeThreshold float64) Category {
	switch {
	case score > positiveThreshold:
		return Positive
	case score < negativeThreshold:
		return Negative
	default:
		return Neutral
	}
}

// Classified is an effective comment enriched with its sentiment result.
// The embedded Comment is a copy; the ingested event is never mutated.
type Classified struct {
	Comment
	Score    float64
	Category Category
}
