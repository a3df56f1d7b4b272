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
	"fmt"

	"github.com/Seagate/photofuse/common"
	"github.com/Seagate/photofuse/common/config"
	"github.com/Seagate/photofuse/common/log"
	"github.com/Seagate/photofuse/internal"
)

// S3Photos : photo service stored in an S3 bucket.
//
//	photos/<id>        photo bytes, metadata "title" and "taken"
//	albums/<id>.yaml   album title and ordered photo ids
type S3Photos struct {
	internal.BaseComponent
	storage  PhotoConnection
	stConfig Config
}

const compName = "s3photos"

// Verification to check satisfaction criteria with Component Interface
var _ internal.Component = &S3Photos{}
var _ internal.PhotoService = &S3Photos{}

// Configure : Pipeline will call this method after constructor so that you can read config and initialize yourself
func (s3 *S3Photos) Configure(isParent bool) error {
	log.Trace("S3Photos::Configure : %s", s3.Name())

	conf := Options{}
	err := config.UnmarshalKey(s3.Name(), &conf)
	if err != nil {
		log.Err("S3Photos::Configure : config error [invalid config attributes]")
		return fmt.Errorf("config error in %s [%s]", s3.Name(), err.Error())
	}

	err = ParseAndValidateConfig(s3, conf)
	if err != nil {
		log.Err("S3Photos::Configure : Config validation failed [%s]", err.Error())
		return fmt.Errorf("config error in %s [%s]", s3.Name(), err.Error())
	}

	s3.storage, err = NewConnection(s3.stConfig)
	if err != nil {
		log.Err("S3Photos::Configure : Failed to create connection [%s]", err.Error())
		return err
	}

	return nil
}

// GenConfig : commented template, credentials are never written out
func (s3 *S3Photos) GenConfig() string {
	return fmt.Sprintf("\n%s:\n  bucket-name: <bucket holding photos/ and albums/>\n"+
		"  # region: us-east-1\n  # endpoint: <https://s3.example.com for S3 compatible services>\n"+
		"  # subdirectory: <prefix inside the bucket>\n  # use-path-style: false\n"+
		"  # credential-file: %s\n  # profile: default\n  # presign-expiry-sec: %d\n",
		compName, common.DefaultCredentialFile, defaultPresignExpiry)
}

func (s3 *S3Photos) Priority() internal.ComponentPriority {
	return internal.EComponentPriority.Consumer()
}

// OnConfigChange : When config file is changed, this will be called by pipeline. Refresh required config here
func (s3 *S3Photos) OnConfigChange() {
	log.Trace("S3Photos::OnConfigChange : %s", s3.Name())

	conf := Options{}
	err := config.UnmarshalKey(s3.Name(), &conf)
	if err != nil {
		log.Err("S3Photos::OnConfigChange : Config error [invalid config attributes]")
		return
	}

	err = ParseAndValidateConfig(s3, conf)
	if err != nil {
		log.Err("S3Photos::OnConfigChange : failed to reparse config [%s]", err.Error())
		return
	}

	if s3.storage == nil {
		return
	}
	err = s3.storage.UpdateConfig(s3.stConfig)
	if err != nil {
		log.Err("S3Photos::OnConfigChange : failed to UpdateConfig [%s]", err.Error())
	}
}

// Start : check the bucket is reachable before the mount goes live
func (s3 *S3Photos) Start(ctx context.Context) error {
	log.Trace("S3Photos::Start : Starting component %s", s3.Name())

	err := s3.storage.TestConnection(ctx)
	if err != nil {
		log.Err("S3Photos::Start : bucket %s unreachable [%s]", s3.stConfig.authConfig.BucketName, err.Error())
		return err
	}
	return nil
}

// Stop : Disconnect all running operations here
func (s3 *S3Photos) Stop() error {
	log.Trace("S3Photos::Stop : Stopping component %s", s3.Name())
	return nil
}

// ------------------------- Photo service -------------------------------------------

func (s3 *S3Photos) ListCollections(ctx context.Context) ([]internal.RemoteCollection, error) {
	return s3.storage.ListCollections(ctx)
}

func (s3 *S3Photos) ListItems(ctx context.Context, collectionID string, page int, perPage int) ([]internal.RemoteItem, error) {
	return s3.storage.ListItems(ctx, collectionID, page, perPage)
}

func (s3 *S3Photos) RenameItem(ctx context.Context, itemID string, newName string) error {
	return s3.storage.RenameItem(ctx, itemID, newName)
}

func (s3 *S3Photos) RenameCollection(ctx context.Context, collectionID string, newName string) error {
	return s3.storage.RenameCollection(ctx, collectionID, newName)
}

func (s3 *S3Photos) CreateCollection(ctx context.Context, name string, seedItemID string) (string, error) {
	return s3.storage.CreateCollection(ctx, name, seedItemID)
}

func (s3 *S3Photos) AddItemToCollection(ctx context.Context, collectionID string, itemID string) error {
	return s3.storage.AddItemToCollection(ctx, collectionID, itemID)
}

func (s3 *S3Photos) RemoveItemFromCollection(ctx context.Context, collectionID string, itemID string) error {
	return s3.storage.RemoveItemFromCollection(ctx, collectionID, itemID)
}

func (s3 *S3Photos) Upload(ctx context.Context, localPath string, title string) (string, error) {
	return s3.storage.Upload(ctx, localPath, title)
}

func (s3 *S3Photos) DeleteItem(ctx context.Context, itemID string) error {
	return s3.storage.DeleteItem(ctx, itemID)
}

// ------------------------- Factory methods to create objects -------------------------------------------

// Constructor to create object of this component
func NewS3PhotosComponent() internal.Component {
	s3 := &S3Photos{}
	s3.SetName(compName)
	config.AddConfigChangeEventListener(s3)
	return s3
}

// On init register this component to pipeline and supply your constructor
func init() {
	internal.AddComponent(compName, NewS3PhotosComponent)
	RegisterEnvVariables()

	bucketName := config.AddStringFlag("bucket-name", "", "Bucket holding the photo account.")
	config.BindPFlag(compName+".bucket-name", bucketName)

	subDirectory := config.AddStringFlag("subdirectory", "", "Keep the photo account under this prefix of the bucket.")
	config.BindPFlag(compName+".subdirectory", subDirectory)

	credentialFile := config.AddStringFlag("credential-file", "", "ini file holding key-id and secret-key.")
	config.BindPFlag(compName+".credential-file", credentialFile)

	profile := config.AddStringFlag("profile", "", "Section of the credential file to use.")
	config.BindPFlag(compName+".profile", profile)
	profile.Hidden = true
}
