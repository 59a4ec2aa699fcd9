package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"cloudlab-go/internal/types"
)

type TranscriberMock struct {
	mock.Mock
}

func (m *TranscriberMock) Start(ctx context.Context, req types.StartRequest) (*types.Job, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*types.Job), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TranscriberMock) Get(ctx context.Context, name string) (*types.Job, error) {
	args := m.Called(ctx, name)
	if v := args.Get(0); v != nil {
		return v.(*types.Job), args.Error(1)
	}
	return nil, args.Error(1)
}

type FetcherMock struct {
	mock.Mock
}

func (m *FetcherMock) Fetch(ctx context.Context, uri string) (*types.TranscriptDocument, error) {
	args := m.Called(ctx, uri)
	if v := args.Get(0); v != nil {
		return v.(*types.TranscriptDocument), args.Error(1)
	}
	return nil, args.Error(1)
}

type WriterMock struct {
	mock.Mock
}

func (m *WriterMock) PutText(ctx context.Context, bucket, key, body string) (string, error) {
	args := m.Called(ctx, bucket, key, body)
	return args.String(0), args.Error(1)
}
