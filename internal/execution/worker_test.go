package execution

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"tsa/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func makeFiles(n int) []domain.TestFile {
	files := make([]domain.TestFile, n)
	for i := range files {
		name := fmt.Sprintf("file-%02d.rs", i)
		files[i] = domain.NewTestFile("/staging/"+name, name)
	}
	return files
}

func nameCase(_ context.Context, file domain.TestFile) (domain.TestCase, error) {
	return domain.NewTest(file.Identity, "gccrs", 0)
}

func TestWorkerPool_ExecutePreservesOrder(t *testing.T) {
	files := makeFiles(20)

	for _, workers := range []int{1, 4, 32} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			results, _ := NewWorkerPool(workers).Execute(context.Background(), files, nameCase)
			require.Len(t, results, len(files))
			for i, r := range results {
				require.NoError(t, r.Error)
				assert.Equal(t, files[i], r.File)
				assert.Equal(t, files[i].Identity, r.Case.Name)
			}
		})
	}
}

func TestWorkerPool_ExecuteCollectsEveryOutcome(t *testing.T) {
	files := makeFiles(9)
	boom := errors.New("boom")

	adapt := func(_ context.Context, file domain.TestFile) (domain.TestCase, error) {
		switch file.Identity {
		case "file-03.rs":
			return domain.TestCase{}, boom
		case "file-05.rs":
			return domain.Skip(), nil
		}
		return domain.NewTest(file.Identity, "gccrs", 0)
	}

	results, _ := NewWorkerPool(3).Execute(context.Background(), files, adapt)
	require.Len(t, results, 9)
	assert.ErrorIs(t, results[3].Error, boom)
	assert.True(t, results[5].Case.IsSkip())
	assert.NoError(t, results[8].Error)
	assert.Equal(t, "file-08.rs", results[8].Case.Name)
}

func TestWorkerPool_FailFast(t *testing.T) {
	files := makeFiles(50)
	boom := errors.New("boom")
	var calls atomic.Int32

	adapt := func(_ context.Context, file domain.TestFile) (domain.TestCase, error) {
		calls.Add(1)
		if file.Identity == "file-02.rs" {
			return domain.TestCase{}, boom
		}
		return domain.NewTest(file.Identity, "gccrs", 0)
	}

	results, _, err := NewWorkerPool(2).ExecuteWithOptions(context.Background(), files, adapt, true)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, results)
	assert.Less(t, int(calls.Load()), len(files))
}

func TestWorkerPool_FailFastWithoutErrors(t *testing.T) {
	files := makeFiles(10)
	results, _, err := NewWorkerPool(4).ExecuteWithOptions(context.Background(), files, nameCase, true)
	require.NoError(t, err)
	assert.Len(t, results, 10)
}

func TestWorkerPool_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, _ := NewWorkerPool(2).Execute(ctx, makeFiles(4), nameCase)
	require.Len(t, results, 4)
	for _, r := range results {
		assert.ErrorIs(t, r.Error, context.Canceled)
	}
}

func TestWorkerPool_Empty(t *testing.T) {
	results, duration, err := NewWorkerPool(2).ExecuteWithOptions(context.Background(), nil, nameCase, true)
	assert.NoError(t, err)
	assert.Nil(t, results)
	assert.Zero(t, duration)
}

func TestNewWorkerPool_AtLeastOneWorker(t *testing.T) {
	assert.Equal(t, 1, NewWorkerPool(0).Workers())
	assert.Equal(t, 1, NewWorkerPool(-3).Workers())
}
