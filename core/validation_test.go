package core

import (
	"errors"
	"testing"
)

func TestValidateBatchRecord(t *testing.T) {
	tests := []struct {
		name    string
		record  *BatchRecord
		wantErr error
	}{
		{
			name: "valid record",
			record: &BatchRecord{
				Partition:   "python_train",
				StartOffset: 0,
				BatchSize:   32,
				Status:      BatchStatusInProgress,
			},
			wantErr: nil,
		},
		{
			name: "valid failed record with error message",
			record: &BatchRecord{
				Partition:    "python_train",
				StartOffset:  96,
				BatchSize:    32,
				Status:       BatchStatusFailed,
				RetryCount:   5,
				ErrorMessage: "failed after 5 retries",
			},
			wantErr: nil,
		},
		{
			name:    "nil record",
			record:  nil,
			wantErr: ErrInvalidBatchRecord,
		},
		{
			name: "empty partition",
			record: &BatchRecord{
				StartOffset: 0,
				BatchSize:   32,
				Status:      BatchStatusPending,
			},
			wantErr: ErrEmptyPartition,
		},
		{
			name: "partition with key separator",
			record: &BatchRecord{
				Partition:   "go:train",
				StartOffset: 0,
				BatchSize:   32,
				Status:      BatchStatusPending,
			},
			wantErr: ErrInvalidPartitionName,
		},
		{
			name: "negative offset",
			record: &BatchRecord{
				Partition:   "go_train",
				StartOffset: -1,
				BatchSize:   32,
				Status:      BatchStatusPending,
			},
			wantErr: ErrInvalidOffset,
		},
		{
			name: "zero batch size",
			record: &BatchRecord{
				Partition:   "go_train",
				StartOffset: 0,
				BatchSize:   0,
				Status:      BatchStatusPending,
			},
			wantErr: ErrInvalidBatchSize,
		},
		{
			name: "unknown status",
			record: &BatchRecord{
				Partition:   "go_train",
				StartOffset: 0,
				BatchSize:   32,
				Status:      BatchStatus(42),
			},
			wantErr: ErrInvalidBatchStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBatchRecord(tt.record)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidatePartitionName(t *testing.T) {
	if err := ValidatePartitionName("go_train"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidatePartitionName(""); !errors.Is(err, ErrEmptyPartition) {
		t.Errorf("expected ErrEmptyPartition, got %v", err)
	}
	// "a" must never iterate into "a:b"'s key range.
	if err := ValidatePartitionName("a:b"); !errors.Is(err, ErrInvalidPartitionName) {
		t.Errorf("expected ErrInvalidPartitionName, got %v", err)
	}
}

func TestValidateBatchStatus(t *testing.T) {
	for _, status := range []BatchStatus{
		BatchStatusPending, BatchStatusInProgress, BatchStatusCompleted, BatchStatusFailed,
	} {
		if err := ValidateBatchStatus(status); err != nil {
			t.Errorf("status %v should be valid: %v", status, err)
		}
	}

	if err := ValidateBatchStatus(BatchStatus(0)); !errors.Is(err, ErrInvalidBatchStatus) {
		t.Errorf("expected ErrInvalidBatchStatus, got %v", err)
	}
}
