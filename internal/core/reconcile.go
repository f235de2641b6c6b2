package core

import "fmt"

// Partition names one of the three reconciliation sets.
type Partition string

const (
	PartitionRemoved  Partition = "removed"
	PartitionAdded    Partition = "added"
	PartitionMatching Partition = "matching"
)

// Partitions lists the partitions in display order.
var Partitions = []Partition{PartitionRemoved, PartitionAdded, PartitionMatching}

// ParsePartition validates a partition name.
func ParsePartition(s string) (Partition, error) {
	switch p := Partition(s); p {
	case PartitionRemoved, PartitionAdded, PartitionMatching:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPartition, s)
}

// Caption is the heading shown above the partition's table.
func (p Partition) Caption() string {
	switch p {
	case PartitionRemoved:
		return "Items Removed"
	case PartitionAdded:
		return "Items Added"
	case PartitionMatching:
		return "Matching Items"
	}
	return string(p)
}

// Result is the three-way partition of two record sequences.
type Result struct {
	Removed  []Record
	Added    []Record
	Matching []Record
}

// Records returns the records of partition p.
func (r Result) Records(p Partition) ([]Record, error) {
	switch p {
	case PartitionRemoved:
		return r.Removed, nil
	case PartitionAdded:
		return r.Added, nil
	case PartitionMatching:
		return r.Matching, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPartition, p)
}

// Counts returns the size of each partition.
func (r Result) Counts() map[Partition]int {
	return map[Partition]int{
		PartitionRemoved:  len(r.Removed),
		PartitionAdded:    len(r.Added),
		PartitionMatching: len(r.Matching),
	}
}

// Reconcile partitions original and updated by Record.Key.
//
// Removed holds original records whose key is absent from updated, Added
// holds updated records whose key is absent from original, and Matching
// holds the original instance of every key present in both. Each output
// keeps the relative order of its input. Fields other than the key are
// never compared.
func Reconcile(original, updated []Record) Result {
	result := Result{
		Removed:  []Record{},
		Added:    []Record{},
		Matching: []Record{},
	}

	originalKeys := keySet(original)
	updatedKeys := keySet(updated)

	for _, rec := range original {
		if _, ok := updatedKeys[rec.Key()]; ok {
			result.Matching = append(result.Matching, rec)
		} else {
			result.Removed = append(result.Removed, rec)
		}
	}

	for _, rec := range updated {
		if _, ok := originalKeys[rec.Key()]; !ok {
			result.Added = append(result.Added, rec)
		}
	}

	return result
}

func keySet(records []Record) map[string]struct{} {
	set := make(map[string]struct{}, len(records))
	for _, rec := range records {
		set[rec.Key()] = struct{}{}
	}
	return set
}
