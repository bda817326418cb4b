package file

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/leave-management-go/internal/pkg/storage"
)

func newTestFileService(t *testing.T) FileService {
	store, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)
	return NewFileService(store)
}

func TestUploadLeaveDocument(t *testing.T) {
	ctx := context.Background()
	svc := newTestFileService(t)

	url, err := svc.UploadLeaveDocument(ctx, 101, bytes.NewReader([]byte("certificate")), "medical-cert.pdf")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/leave-documents/101/"))
	assert.True(t, strings.HasSuffix(url, ".pdf"))
}

func TestUploadLeaveDocument_RejectsBadExtension(t *testing.T) {
	ctx := context.Background()
	svc := newTestFileService(t)

	_, err := svc.UploadLeaveDocument(ctx, 101, bytes.NewReader([]byte("#!/bin/sh")), "script.sh")
	assert.Error(t, err)

	_, err = svc.UploadLeaveDocument(ctx, 101, bytes.NewReader([]byte("x")), "noextension")
	assert.Error(t, err)
}
