// Package navfilesv1 defines the navfiles.v1 RPC contract: request and
// response messages, the service descriptor, and client/server bindings.
//
// The wire format is JSON over gRPC, not protobuf. Messages are plain
// structs encoded by the codec registered in internal/platform/grpc/jsoncodec
// under the "json" content-subtype. Clients built with
// NewNavigationFilesServiceClient select it on every call; other clients
// must send content-type "application/grpc+json", since a default proto
// codec cannot encode these messages.
package navfilesv1

import "time"

// ListMapsRequest asks for every stored map.
type ListMapsRequest struct{}

// ListMapsResponse carries stored map file names.
type ListMapsResponse struct {
	Names []string `json:"names"`
}

// GetNames returns the map names.
func (r *ListMapsResponse) GetNames() []string {
	if r == nil {
		return nil
	}
	return r.Names
}

// GetMapRequest identifies one map by file name.
type GetMapRequest struct {
	Name string `json:"name"`
}

// GetName returns the requested name.
func (r *GetMapRequest) GetName() string {
	if r == nil {
		return ""
	}
	return r.Name
}

// GetMapResponse carries map content. Found is false when the map could
// not be read; Content is then empty.
type GetMapResponse struct {
	Content string `json:"content,omitempty"`
	Found   bool   `json:"found"`
}

// GetContent returns the map content.
func (r *GetMapResponse) GetContent() string {
	if r == nil {
		return ""
	}
	return r.Content
}

// GetFound reports whether the map was read.
func (r *GetMapResponse) GetFound() bool {
	if r == nil {
		return false
	}
	return r.Found
}

// UploadMapRequest writes content under name.
type UploadMapRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// GetName returns the target name.
func (r *UploadMapRequest) GetName() string {
	if r == nil {
		return ""
	}
	return r.Name
}

// GetContent returns the content to write.
func (r *UploadMapRequest) GetContent() string {
	if r == nil {
		return ""
	}
	return r.Content
}

// UploadMapResponse reports the stored file name.
type UploadMapResponse struct {
	Name    string `json:"name"`
	Success bool   `json:"success"`
}

// GetName returns the stored file name.
func (r *UploadMapResponse) GetName() string {
	if r == nil {
		return ""
	}
	return r.Name
}

// GetSuccess reports whether the write completed.
func (r *UploadMapResponse) GetSuccess() bool {
	if r == nil {
		return false
	}
	return r.Success
}

// MapRevision describes one recorded upload.
type MapRevision struct {
	Name       string    `json:"name"`
	SizeBytes  int64     `json:"size_bytes"`
	Checksum   string    `json:"checksum"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// ListMapRevisionsRequest pages through uploads of one map.
type ListMapRevisionsRequest struct {
	Name      string `json:"name"`
	PageSize  int32  `json:"page_size,omitempty"`
	PageToken string `json:"page_token,omitempty"`
}

// GetName returns the map name.
func (r *ListMapRevisionsRequest) GetName() string {
	if r == nil {
		return ""
	}
	return r.Name
}

// GetPageSize returns the requested page size.
func (r *ListMapRevisionsRequest) GetPageSize() int32 {
	if r == nil {
		return 0
	}
	return r.PageSize
}

// GetPageToken returns the continuation token.
func (r *ListMapRevisionsRequest) GetPageToken() string {
	if r == nil {
		return ""
	}
	return r.PageToken
}

// ListMapRevisionsResponse carries one page of revisions, newest first.
type ListMapRevisionsResponse struct {
	Revisions     []*MapRevision `json:"revisions"`
	NextPageToken string         `json:"next_page_token,omitempty"`
}

// GetRevisions returns the revisions.
func (r *ListMapRevisionsResponse) GetRevisions() []*MapRevision {
	if r == nil {
		return nil
	}
	return r.Revisions
}

// GetNextPageToken returns the token for the next page.
func (r *ListMapRevisionsResponse) GetNextPageToken() string {
	if r == nil {
		return ""
	}
	return r.NextPageToken
}
