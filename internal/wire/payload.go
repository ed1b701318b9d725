package wire

// Record is one labeled metric. A nil Value marks a free-form text line.
type Record struct {
	Label string
	Value *float64
}

// Measurement returns a Record carrying a numeric value.
func Measurement(label string, value float64) Record {
	return Record{Label: label, Value: &value}
}

// Text returns a Record without a value.
func Text(label string) Record {
	return Record{Label: label}
}

// HasValue reports whether the record carries a measurement.
func (r Record) HasValue() bool {
	return r.Value != nil
}

// Payload is the unit of transmission: a category and its ordered records.
type Payload struct {
	Category Category
	Records  []Record
}
