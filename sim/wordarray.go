package sim

import (
	"fmt"
	"strconv"
	"strings"
)

// WordArray is an ordered sequence of IntSignals that share one range. It
// models the storage of a synchronous memory: each word follows the two-phase
// discipline on its own.
type WordArray struct {
	name  string
	rng   Range
	words []*IntSignal
}

// NewWordArray creates size words named name[i], all starting at init.
func NewWordArray(
	st Stager,
	name string,
	size int,
	init int,
	rng Range,
) (*WordArray, error) {
	if size <= 0 {
		return nil, ConfigErrorf("%s: size %d must be positive", name, size)
	}

	a := &WordArray{
		name:  name,
		rng:   rng,
		words: make([]*IntSignal, size),
	}

	for i := range a.words {
		w, err := NewIntSignal(st, fmt.Sprintf("%s[%d]", name, i), init, rng)
		if err != nil {
			return nil, err
		}

		a.words[i] = w
	}

	return a, nil
}

// Name returns the name of the array.
func (a *WordArray) Name() string {
	return a.name
}

// Len returns the number of words.
func (a *WordArray) Len() int {
	return len(a.words)
}

// Range returns the value range shared by all the words.
func (a *WordArray) Range() Range {
	return a.rng
}

// Word returns the signal at index i.
func (a *WordArray) Word(i int) (*IntSignal, error) {
	if i < 0 || i >= len(a.words) {
		return nil, &IndexError{Array: a.name, Index: i, Size: len(a.words)}
	}

	return a.words[i], nil
}

// Read returns the current value of word i.
func (a *WordArray) Read(i int) (int, error) {
	w, err := a.Word(i)
	if err != nil {
		return 0, err
	}

	return w.Read(), nil
}

// Write stages v into word i.
func (a *WordArray) Write(i int, v int) error {
	w, err := a.Word(i)
	if err != nil {
		return err
	}

	return w.Write(v)
}

// Values returns a copy of the current value of every word.
func (a *WordArray) Values() []int {
	values := make([]int, len(a.words))
	for i, w := range a.words {
		values[i] = w.Read()
	}

	return values
}

// Signals returns the words as signals, in index order.
func (a *WordArray) Signals() []Signal {
	signals := make([]Signal, len(a.words))
	for i, w := range a.words {
		signals[i] = w
	}

	return signals
}

// Sample returns a snapshot of all the words.
func (a *WordArray) Sample() Sample {
	return Sample{Kind: ArraySample, Values: a.Values()}
}

// String returns the current values as [a,b,c].
func (a *WordArray) String() string {
	parts := make([]string, len(a.words))
	for i, w := range a.words {
		parts[i] = strconv.Itoa(w.Read())
	}

	return "[" + strings.Join(parts, ",") + "]"
}
