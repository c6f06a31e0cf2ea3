package decode

import "fmt"

// Disbarred flag values.
const (
	Disbarred = "1"
	Listed    = "0"
)

// Record is one normalized feed article.
type Record struct {
	Code             string
	OldCode          string
	Description      string
	Price            *int64 // minor units; nil when the feed has no price
	Disbarred        string
	GroupCode        string
	GroupDescription string
	Barcodes         []Barcode // never nil
}

// Barcode is one barcode entry of an article.
type Barcode struct {
	Value    string
	Quantity int
}

// DecodeError reports a malformed feed. Line is the input line the decoder had
// reached, zero when unknown.
type DecodeError struct {
	Line int
	Msg  string
	Err  error
}

func (e *DecodeError) Error() string {
	msg := e.Msg
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("decode feed: %s: %v", msg, e.Err)
	}
	return "decode feed: " + msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
