package repositories

import (
	"context"
	"errors"
	"testing"

	redismock "github.com/go-redis/redismock/v9"

	"bean/internal/model"
)

func TestRedisStore_ReadLines(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewRedisStore(rdb, "")

	mock.ExpectLRange(DefaultRedisKey, 0, -1).SetVal([]string{"T | 0 | a", "T | 1 | b"})

	got, err := store.ReadLines(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 || got[1] != "T | 1 | b" {
		t.Fatalf("unexpected lines: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("redis expectations: %v", err)
	}
}

func TestRedisStore_ReadLines_Error(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewRedisStore(rdb, "tasks")

	mock.ExpectLRange("tasks", 0, -1).SetErr(errors.New("connection refused"))

	_, err := store.ReadLines(context.Background())
	var ioErr *model.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected IOError got %v", err)
	}
}

func TestRedisStore_WriteLines(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewRedisStore(rdb, "tasks")

	mock.ExpectTxPipeline()
	mock.ExpectDel("tasks").SetVal(1)
	mock.ExpectRPush("tasks", "T | 0 | a", "D | 0 | b | 2024-12-01 1800").SetVal(2)
	mock.ExpectTxPipelineExec()

	if err := store.WriteLines(context.Background(), []string{"T | 0 | a", "D | 0 | b | 2024-12-01 1800"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("redis expectations: %v", err)
	}
}
