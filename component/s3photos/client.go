/*
   Licensed under the MIT License <http://opensource.org/licenses/MIT>.

   Copyright © 2023-2025 Seagate Technology LLC and/or its Affiliates
   Copyright © 2020-2025 Microsoft Corporation. All rights reserved.

   Permission is hereby granted, free of charge, to any person obtaining a copy
   of this software and associated documentation files (the "Software"), to deal
   in the Software without restriction, including without limitation the rights
   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
   copies of the Software, and to permit persons to whom the Software is
   furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in all
   copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
   SOFTWARE
*/

package s3photos

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/Seagate/photofuse/common"
	"github.com/Seagate/photofuse/common/log"
	"github.com/Seagate/photofuse/internal"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

type Client struct {
	Config
	awsS3Client   *s3.Client // S3 client library supplied by AWS
	presigner     *s3.PresignClient
	uploader      *manager.Uploader
	manifestLocks common.KeyedMutex
}

// Verify that Client implements PhotoConnection interface
var _ PhotoConnection = &Client{}

// Configure : Initialize the awsS3Client
func (cl *Client) Configure(cfg Config) error {
	log.Trace("Client::Configure : initialize awsS3Client")
	cl.Config = cfg

	// Use the endpoint supplied in the config file, otherwise let the SDK resolve the AWS one
	endpointResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if service == s3.ServiceID && cl.Config.authConfig.Endpoint != "" {
			return aws.Endpoint{
				PartitionID:       "aws",
				URL:               cl.Config.authConfig.Endpoint,
				SigningRegion:     region,
				HostnameImmutable: cl.Config.usePathStyle,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	region := cl.Config.authConfig.Region
	if region == "" {
		region = "us-east-1"
	}

	staticProvider := credentials.NewStaticCredentialsProvider(
		cl.Config.authConfig.KeyID,
		cl.Config.authConfig.SecretKey,
		"",
	)
	defaultConfig, err := config.LoadDefaultConfig(
		context.TODO(),
		config.WithRegion(region),
		config.WithCredentialsProvider(staticProvider),
		config.WithEndpointResolverWithOptions(endpointResolver),
	)
	if err != nil {
		log.Err("Client::Configure : config.LoadDefaultConfig() failed. Here's why: %v", err)
		return err
	}

	// Create an Amazon S3 service client
	cl.awsS3Client = s3.NewFromConfig(defaultConfig, func(o *s3.Options) {
		o.UsePathStyle = cl.Config.usePathStyle
	})
	cl.presigner = s3.NewPresignClient(cl.awsS3Client)
	cl.uploader = manager.NewUploader(cl.awsS3Client)

	return nil
}

// UpdateConfig : presign lifetime is the only setting that changes without a new client
func (cl *Client) UpdateConfig(cfg Config) error {
	cl.Config.presignExpiry = cfg.presignExpiry
	return nil
}

// TestConnection : make sure the bucket is reachable with the configured credentials
func (cl *Client) TestConnection(ctx context.Context) error {
	return cl.headBucket(ctx)
}

// ------------------------- Manifests -------------------------------------------

func (cl *Client) readManifest(ctx context.Context, albumID string) (*albumManifest, error) {
	data, err := cl.getObject(ctx, manifestKey(albumID))
	if err != nil {
		return nil, err
	}
	m, err := decodeManifest(data)
	if err != nil {
		log.Err("Client::readManifest : album %s has a corrupt manifest [%s]", albumID, err.Error())
		return nil, fmt.Errorf("album %s manifest corrupt [%s]: %w", albumID, err.Error(), common.ErrRemoteUnavailable)
	}
	return m, nil
}

func (cl *Client) writeManifest(ctx context.Context, albumID string, m *albumManifest) error {
	data, err := m.encode()
	if err != nil {
		return err
	}
	return cl.putBuffer(ctx, manifestKey(albumID), data)
}

// updateManifest : read-modify-write of one manifest, serialized per album
func (cl *Client) updateManifest(ctx context.Context, albumID string, update func(m *albumManifest) bool) error {
	lock := cl.manifestLocks.GetLock(albumID)
	lock.Lock()
	defer lock.Unlock()

	m, err := cl.readManifest(ctx, albumID)
	if err != nil {
		return err
	}
	if !update(m) {
		return nil
	}
	return cl.writeManifest(ctx, albumID, m)
}

func (cl *Client) listAlbumIDs(ctx context.Context) ([]string, error) {
	keys, err := cl.listKeys(ctx, albumPrefix)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		if id, ok := idFromKey(key, albumPrefix, manifestSuffix); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (cl *Client) listManifests(ctx context.Context) (map[string]*albumManifest, []string, error) {
	ids, err := cl.listAlbumIDs(ctx)
	if err != nil {
		return nil, nil, err
	}

	manifests := make(map[string]*albumManifest, len(ids))
	order := make([]string, 0, len(ids))
	for _, id := range ids {
		m, err := cl.readManifest(ctx, id)
		if errors.Is(err, common.ErrNotFound) {
			// deleted between list and read
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		manifests[id] = m
		order = append(order, id)
	}
	return manifests, order, nil
}

// uncategorizedIDs : photos referenced by no album, sorted
func (cl *Client) uncategorizedIDs(ctx context.Context) ([]string, error) {
	keys, err := cl.listKeys(ctx, photoPrefix)
	if err != nil {
		return nil, err
	}
	manifests, _, err := cl.listManifests(ctx)
	if err != nil {
		return nil, err
	}

	inAlbum := make(map[string]struct{})
	for _, m := range manifests {
		for _, id := range m.Items {
			inAlbum[id] = struct{}{}
		}
	}

	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		id, ok := idFromKey(key, photoPrefix, "")
		if !ok {
			continue
		}
		if _, found := inAlbum[id]; !found {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (cl *Client) describePhoto(ctx context.Context, id string) (internal.RemoteItem, error) {
	head, err := cl.headObject(ctx, photoKey(id))
	if err != nil {
		return internal.RemoteItem{}, err
	}
	uri, err := cl.presignGet(ctx, photoKey(id))
	if err != nil {
		return internal.RemoteItem{}, err
	}
	return internal.RemoteItem{
		Name:      decodeTitle(head.metadata[titleKey]),
		ID:        id,
		SourceURI: uri,
		TakenText: head.metadata[takenKey],
	}, nil
}

// ------------------------- Photo service -------------------------------------------

func (cl *Client) ListCollections(ctx context.Context) ([]internal.RemoteCollection, error) {
	log.Trace("Client::ListCollections")

	manifests, order, err := cl.listManifests(ctx)
	if err != nil {
		return nil, err
	}

	albums := make([]internal.RemoteCollection, 0, len(order))
	for _, id := range order {
		m := manifests[id]
		albums = append(albums, internal.RemoteCollection{
			Name:      m.Title,
			ID:        id,
			ItemCount: len(m.Items),
		})
	}
	return albums, nil
}

func (cl *Client) ListItems(ctx context.Context, collectionID string, page int, perPage int) ([]internal.RemoteItem, error) {
	log.Trace("Client::ListItems : album %s page %d (%d per page)", collectionID, page, perPage)

	var ids []string
	if collectionID == "" {
		uncategorized, err := cl.uncategorizedIDs(ctx)
		if err != nil {
			return nil, err
		}
		ids = uncategorized
	} else {
		m, err := cl.readManifest(ctx, collectionID)
		if err != nil {
			return nil, err
		}
		ids = m.Items
	}

	start, end := pageWindow(len(ids), page, perPage)
	items := make([]internal.RemoteItem, 0, end-start)
	for _, id := range ids[start:end] {
		item, err := cl.describePhoto(ctx, id)
		if errors.Is(err, common.ErrNotFound) {
			log.Warn("Client::ListItems : album %s references missing photo %s", collectionID, id)
			items = append(items, internal.RemoteItem{ID: id, Missing: true})
			continue
		}
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (cl *Client) RenameItem(ctx context.Context, itemID string, newName string) error {
	log.Trace("Client::RenameItem : photo %s -> %s", itemID, newName)

	head, err := cl.headObject(ctx, photoKey(itemID))
	if err != nil {
		return err
	}
	metadata := head.metadata
	metadata[titleKey] = encodeTitle(newName)
	return cl.replaceMetadata(ctx, photoKey(itemID), head.contentType, metadata)
}

func (cl *Client) RenameCollection(ctx context.Context, collectionID string, newName string) error {
	log.Trace("Client::RenameCollection : album %s -> %s", collectionID, newName)

	return cl.updateManifest(ctx, collectionID, func(m *albumManifest) bool {
		if m.Title == newName {
			return false
		}
		m.Title = newName
		return true
	})
}

func (cl *Client) CreateCollection(ctx context.Context, name string, seedItemID string) (string, error) {
	log.Trace("Client::CreateCollection : album %s seeded with %s", name, seedItemID)

	if seedItemID != "" {
		_, err := cl.headObject(ctx, photoKey(seedItemID))
		if err != nil {
			return "", err
		}
	}

	id := uuid.New().String()
	m := &albumManifest{Title: name}
	m.add(seedItemID)
	err := cl.writeManifest(ctx, id, m)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (cl *Client) AddItemToCollection(ctx context.Context, collectionID string, itemID string) error {
	log.Trace("Client::AddItemToCollection : photo %s -> album %s", itemID, collectionID)

	_, err := cl.headObject(ctx, photoKey(itemID))
	if err != nil {
		return err
	}
	return cl.updateManifest(ctx, collectionID, func(m *albumManifest) bool {
		return m.add(itemID)
	})
}

func (cl *Client) RemoveItemFromCollection(ctx context.Context, collectionID string, itemID string) error {
	log.Trace("Client::RemoveItemFromCollection : photo %s <- album %s", itemID, collectionID)

	return cl.updateManifest(ctx, collectionID, func(m *albumManifest) bool {
		return m.remove(itemID)
	})
}

func (cl *Client) Upload(ctx context.Context, localPath string, title string) (string, error) {
	log.Trace("Client::Upload : %s as %s", localPath, title)

	f, err := os.Open(localPath)
	if err != nil {
		log.Err("Client::Upload : failed to open %s [%s]", localPath, err.Error())
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return "", err
	}
	_, err = f.Seek(0, 0)
	if err != nil {
		return "", err
	}

	id := uuid.New().String()
	err = cl.putObject(ctx, putObjectOptions{
		key:         photoKey(id),
		body:        f,
		contentType: mtype.String(),
		metadata: map[string]string{
			titleKey: encodeTitle(title),
			takenKey: common.FormatTaken(info.ModTime()),
		},
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (cl *Client) DeleteItem(ctx context.Context, itemID string) error {
	log.Trace("Client::DeleteItem : photo %s", itemID)

	_, err := cl.headObject(ctx, photoKey(itemID))
	if err != nil {
		return err
	}

	err = cl.deleteObject(ctx, photoKey(itemID))
	if err != nil {
		return err
	}

	// a deleted photo leaves every album it was in
	albumIDs, err := cl.listAlbumIDs(ctx)
	if err != nil {
		log.Warn("Client::DeleteItem : photo %s deleted but albums not updated [%s]", itemID, err.Error())
		return nil
	}
	for _, albumID := range albumIDs {
		err = cl.updateManifest(ctx, albumID, func(m *albumManifest) bool {
			return m.remove(itemID)
		})
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			log.Warn("Client::DeleteItem : album %s still lists photo %s [%s]", albumID, itemID, err.Error())
		}
	}
	return nil
}
