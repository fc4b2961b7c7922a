package persistence

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"go.uber.org/zap"
)

// BlobAdapter keeps each value as a block blob in one container
type BlobAdapter struct {
	client        *azblob.Client
	containerName string
	logger        *zap.Logger
}

// NewBlobAdapter creates an Azure Blob Storage adapter with shared key auth
func NewBlobAdapter(accountName, accountKey, containerName string, logger *zap.Logger) (*BlobAdapter, error) {
	if accountName == "" || accountKey == "" || containerName == "" {
		return nil, fmt.Errorf("accountName, accountKey, and containerName are required")
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", accountName)

	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create shared key credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	return &BlobAdapter{
		client:        client,
		containerName: containerName,
		logger:        logger,
	}, nil
}

func blobName(key string) string {
	return fmt.Sprintf("state/%s.json", key)
}

// Get downloads the blob stored under key
func (a *BlobAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	name := blobName(key)
	blobClient := a.client.ServiceClient().NewContainerClient(a.containerName).NewBlockBlobClient(name)

	resp, err := blobClient.DownloadStream(ctx, nil)
	if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		a.logger.Error("failed to download state blob",
			zap.String("blob_name", name),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to download state blob: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read state blob: %w", err)
	}
	return data, nil
}

// Set uploads value, replacing any existing blob
func (a *BlobAdapter) Set(ctx context.Context, key string, value []byte) error {
	name := blobName(key)
	blobClient := a.client.ServiceClient().NewContainerClient(a.containerName).NewBlockBlobClient(name)

	contentType := "application/json"
	_, err := blobClient.UploadBuffer(ctx, value, &azblob.UploadBufferOptions{
		Metadata: map[string]*string{
			"contenttype": &contentType,
		},
	})
	if err != nil {
		a.logger.Error("failed to upload state blob",
			zap.String("blob_name", name),
			zap.Error(err),
		)
		return fmt.Errorf("failed to upload state blob: %w", err)
	}

	a.logger.Debug("state blob uploaded",
		zap.String("blob_name", name),
		zap.Int("size_bytes", len(value)),
	)
	return nil
}

// Delete removes the blob stored under key
func (a *BlobAdapter) Delete(ctx context.Context, key string) error {
	_, err := a.client.DeleteBlob(ctx, a.containerName, blobName(key), nil)
	if err != nil && !bloberror.HasCode(err, bloberror.BlobNotFound) {
		return fmt.Errorf("failed to delete state blob: %w", err)
	}
	return nil
}
