// Copyright (c) 2026 Vidora. All rights reserved.

/*
Package media implements the media upload gateway.

It moves user-submitted image files (avatars, channel covers) from local
temp storage to a durable S3-compatible object store, and deletes replaced
assets best-effort.

# Architecture

  - Storage: The domain-facing contract consumed by the profile and session
    services. Implementations must be safe for concurrent use.
  - S3Storage: Production implementation backed by aws-sdk-go-v2.
  - TempFile: Scoped handle for the local spool file with guaranteed cleanup.

The gateway is an external collaborator from the domain's point of view:
upload failures surface as errors, delete failures never do.
*/
package media

import "context"

// Storage is the contract for the remote media host.
type Storage interface {

	/*
		Upload pushes a local file to durable storage.

		Parameters:
		  - context: context.Context
		  - localPath: Filesystem path of the spooled upload

		Returns:
		  - string: Public URL of the stored object
		  - error: Gateway or I/O failures
	*/
	Upload(context context.Context, localPath string) (string, error)

	/*
		Delete removes a previously stored object by its public URL.

		Description: Best-effort by contract. Failures are logged by the
		implementation and never returned; a replaced avatar must not fail
		the surrounding profile update.

		Parameters:
		  - context: context.Context
		  - url: Public URL previously returned by Upload
	*/
	Delete(context context.Context, url string)
}
