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
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/Seagate/photofuse/common/log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type putObjectOptions struct {
	key         string
	body        io.Reader
	contentType string
	metadata    map[string]string
}

type objectHead struct {
	contentType string
	size        int64
	metadata    map[string]string
}

// Wrapper for awsS3Client.GetObject, reads the whole (small) object into memory
func (cl *Client) getObject(ctx context.Context, name string) ([]byte, error) {
	key := cl.getKey(name)
	log.Trace("Client::getObject : get object %s", key)

	result, err := cl.awsS3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(cl.Config.authConfig.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, parseS3Err(err, fmt.Sprintf("GetObject(%s)", key))
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, parseS3Err(err, fmt.Sprintf("GetObject(%s)", key))
	}
	return data, nil
}

// Wrapper for the upload manager, which switches to multipart for large photos
func (cl *Client) putObject(ctx context.Context, options putObjectOptions) error {
	key := cl.getKey(options.key)
	log.Trace("Client::putObject : putting object %s", key)

	input := &s3.PutObjectInput{
		Bucket:   aws.String(cl.Config.authConfig.BucketName),
		Key:      aws.String(key),
		Body:     options.body,
		Metadata: options.metadata,
	}
	if options.contentType != "" {
		input.ContentType = aws.String(options.contentType)
	}

	_, err := cl.uploader.Upload(ctx, input)
	if err != nil {
		log.Err("Client::putObject : %s failed [%s]", key, err.Error())
		return parseS3Err(err, fmt.Sprintf("PutObject(%s)", key))
	}
	return nil
}

func (cl *Client) putBuffer(ctx context.Context, name string, data []byte) error {
	return cl.putObject(ctx, putObjectOptions{
		key:         name,
		body:        bytes.NewReader(data),
		contentType: "application/yaml",
	})
}

// Wrapper for awsS3Client.DeleteObject
func (cl *Client) deleteObject(ctx context.Context, name string) error {
	key := cl.getKey(name)
	log.Trace("Client::deleteObject : deleting object %s", key)

	_, err := cl.awsS3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(cl.Config.authConfig.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return parseS3Err(err, fmt.Sprintf("DeleteObject(%s)", key))
	}
	return nil
}

// Wrapper for awsS3Client.HeadObject
func (cl *Client) headObject(ctx context.Context, name string) (*objectHead, error) {
	key := cl.getKey(name)
	log.Trace("Client::headObject : object %s", key)

	result, err := cl.awsS3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(cl.Config.authConfig.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, parseS3Err(err, fmt.Sprintf("HeadObject(%s)", key))
	}

	head := &objectHead{
		contentType: aws.ToString(result.ContentType),
		size:        aws.ToInt64(result.ContentLength),
		metadata:    result.Metadata,
	}
	if head.metadata == nil {
		head.metadata = map[string]string{}
	}
	return head, nil
}

// Wrapper for awsS3Client.HeadBucket
func (cl *Client) headBucket(ctx context.Context) error {
	_, err := cl.awsS3Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(cl.Config.authConfig.BucketName),
	})
	if err != nil {
		return parseS3Err(err, fmt.Sprintf("HeadBucket(%s)", cl.Config.authConfig.BucketName))
	}
	return nil
}

// replaceMetadata : S3 metadata is immutable, so copy the object onto itself with new metadata
func (cl *Client) replaceMetadata(ctx context.Context, name string, contentType string, metadata map[string]string) error {
	key := cl.getKey(name)
	log.Trace("Client::replaceMetadata : object %s", key)

	input := &s3.CopyObjectInput{
		Bucket:            aws.String(cl.Config.authConfig.BucketName),
		CopySource:        aws.String(url.PathEscape(cl.Config.authConfig.BucketName) + "/" + url.PathEscape(key)),
		Key:               aws.String(key),
		Metadata:          metadata,
		MetadataDirective: types.MetadataDirectiveReplace,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	_, err := cl.awsS3Client.CopyObject(ctx, input)
	if err != nil {
		return parseS3Err(err, fmt.Sprintf("CopyObject(%s)", key))
	}
	return nil
}

// presignGet : time limited GET url handed out as a photo source URI
func (cl *Client) presignGet(ctx context.Context, name string) (string, error) {
	key := cl.getKey(name)
	req, err := cl.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(cl.Config.authConfig.BucketName),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(cl.Config.presignExpiry))
	if err != nil {
		return "", parseS3Err(err, fmt.Sprintf("PresignGetObject(%s)", key))
	}
	return req.URL, nil
}

// listKeys : every key under prefix with the mount prefix stripped, in key order
func (cl *Client) listKeys(ctx context.Context, prefix string) ([]string, error) {
	listPath := cl.getKey(prefix)
	if prefix[len(prefix)-1] == '/' && listPath[len(listPath)-1] != '/' {
		listPath += "/"
	}
	log.Trace("Client::listKeys : prefix %s", listPath)

	params := &s3.ListObjectsV2Input{
		Bucket:    aws.String(cl.Config.authConfig.BucketName),
		Prefix:    aws.String(listPath),
		Delimiter: aws.String("/"),
	}

	keys := make([]string, 0)
	paginator := s3.NewListObjectsV2Paginator(cl.awsS3Client, params)
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			log.Err("Client::listKeys : Failed to list %s in bucket %s [%s]", listPath, cl.Config.authConfig.BucketName, err.Error())
			return nil, parseS3Err(err, fmt.Sprintf("ListObjectsV2(%s)", listPath))
		}
		for _, obj := range output.Contents {
			keys = append(keys, split(cl.Config.prefixPath, aws.ToString(obj.Key)))
		}
	}
	return keys, nil
}
