package testutil

import (
	"context"

	"github.com/th3void/lotus-routine/pkg/storage"
)

type MockStorage struct {
	UploadFunc     func(context.Context, *storage.UploadObject) (*storage.UploadResponse, error)
	BulkUploadFunc func(context.Context, []*storage.UploadObject) ([]*storage.UploadResponse, error)
}

func (m *MockStorage) Upload(
	ctx context.Context, obj *storage.UploadObject,
) (*storage.UploadResponse, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, obj)
	}

	return &storage.UploadResponse{
		Url:      "https://storage.example.com/" + obj.FileName,
		FileName: obj.FileName,
	}, nil
}

func (m *MockStorage) BulkUpload(
	ctx context.Context, objs []*storage.UploadObject,
) ([]*storage.UploadResponse, error) {
	if m.BulkUploadFunc != nil {
		return m.BulkUploadFunc(ctx, objs)
	}

	resp := make([]*storage.UploadResponse, 0, len(objs))
	for _, obj := range objs {
		resp = append(resp, &storage.UploadResponse{
			Url:      "https://storage.example.com/" + obj.FileName,
			FileName: obj.FileName,
		})
	}

	return resp, nil
}
