package handlers

import (
	"context"
	"sync"

	"glowup-backend/utils"
)

type mockStorage struct {
	mu              sync.Mutex
	UploadImageFn   func(folder, name string, img utils.DataURL) (string, error)
	DeleteFileFn    func(objectPath string) error
	UploadCalls     []string
	DeleteFileCalls []string
}

func newMockStorage() *mockStorage {
	return &mockStorage{
		UploadCalls:     []string{},
		DeleteFileCalls: []string{},
	}
}

func (m *mockStorage) UploadImage(_ context.Context, folder, name string, img utils.DataURL) (string, error) {
	m.mu.Lock()
	m.UploadCalls = append(m.UploadCalls, folder)
	m.mu.Unlock()
	if m.UploadImageFn != nil {
		return m.UploadImageFn(folder, name, img)
	}
	return "https://storage.googleapis.com/test-bucket/" + folder + "/" + name + img.Extension(), nil
}

func (m *mockStorage) DeleteFile(_ context.Context, objectPath string) error {
	m.mu.Lock()
	m.DeleteFileCalls = append(m.DeleteFileCalls, objectPath)
	m.mu.Unlock()
	if m.DeleteFileFn != nil {
		return m.DeleteFileFn(objectPath)
	}
	return nil
}

func (m *mockStorage) deletes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.DeleteFileCalls...)
}
