package persistence

import (
	"fmt"
	"sort"

	"github.com/Layr-Labs/sui-operator-go/pkg/jsonrpc"
)

// MarshalLeaseState serializes a LeaseState to JSON bytes.
func MarshalLeaseState(ls *LeaseState) ([]byte, error) {
	if ls == nil {
		return nil, fmt.Errorf("cannot marshal nil LeaseState")
	}

	data, err := jsonrpc.Marshal(ls)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal LeaseState to JSON: %w", err)
	}

	return data, nil
}

// UnmarshalLeaseState deserializes a LeaseState from JSON bytes.
func UnmarshalLeaseState(data []byte) (*LeaseState, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot unmarshal empty data")
	}

	var ls LeaseState
	if err := jsonrpc.Unmarshal(data, &ls); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON to LeaseState: %w", err)
	}

	return &ls, nil
}

// MarshalExecutionRecord serializes an ExecutionRecord to JSON bytes.
func MarshalExecutionRecord(er *ExecutionRecord) ([]byte, error) {
	if er == nil {
		return nil, fmt.Errorf("cannot marshal nil ExecutionRecord")
	}

	return jsonrpc.Marshal(er)
}

// UnmarshalExecutionRecord deserializes an ExecutionRecord from JSON bytes.
func UnmarshalExecutionRecord(data []byte) (*ExecutionRecord, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot unmarshal empty data")
	}

	var er ExecutionRecord
	if err := jsonrpc.Unmarshal(data, &er); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON to ExecutionRecord: %w", err)
	}
	if er.ImmutableObjects == nil {
		er.ImmutableObjects = []string{}
	}

	return &er, nil
}

// SortExecutions orders records by ExecutedAt, breaking ties by ID so the order is stable.
func SortExecutions(records []*ExecutionRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].ExecutedAt.Equal(records[j].ExecutedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].ExecutedAt.Before(records[j].ExecutedAt)
	})
}
