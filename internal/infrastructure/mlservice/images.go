package mlservice

import (
	"context"
	"net/http"
	"net/url"

	"github.com/publication-admin/internal/domain"
	"github.com/publication-admin/internal/pkg/id"
)

const (
	initPersonaPath   = "/initpersona/task"
	textToPicturePath = "/t2p-lora/task"
)

// ImagesClient drives adapter training and picture rendering jobs.
type ImagesClient struct {
	c     *Client
	newID func() string
}

func NewImagesClient(c *Client) *ImagesClient {
	return &ImagesClient{c: c, newID: id.New}
}

// SubmitInitPersona starts training an adapter named loraName on the images at s3Paths.
func (ic *ImagesClient) SubmitInitPersona(ctx context.Context, loraName string, s3Paths []string) (*domain.MLTask, error) {
	var resp taskResponse
	err := ic.c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   initPersonaPath,
		Body: initPersonaRequest{
			LoraName: loraName,
			S3Paths:  s3Paths,
			JobID:    ic.newID(),
			BlogName: ic.newID(),
		},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &domain.MLTask{TaskID: resp.TaskID, Status: domain.MLTaskStatus(resp.Status)}, nil
}

// GetInitPersona reports a training job. ResultPath is the adapter artifact
// once the job succeeded.
func (ic *ImagesClient) GetInitPersona(ctx context.Context, taskID string) (*domain.MLTask, error) {
	var resp initPersonaStatusResponse
	err := ic.c.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   initPersonaPath,
		Query:  url.Values{"task_id": {taskID}},
	}, &resp)
	if err != nil {
		return nil, err
	}
	task := &domain.MLTask{TaskID: resp.TaskID, Status: domain.MLTaskStatus(resp.Status)}
	if task.Status == domain.MLTaskSuccess && len(resp.Data.S3ArtifactPaths) > 0 {
		task.ResultPath = resp.Data.S3ArtifactPaths[0]
	}
	return task, nil
}

// SubmitTextToPicture renders one picture of the trained persona from caption.
func (ic *ImagesClient) SubmitTextToPicture(ctx context.Context, loraName, loraPath, caption string) (*domain.MLTask, error) {
	jobID := ic.newID()
	var resp taskResponse
	err := ic.c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   textToPicturePath,
		Body: textToPictureRequest{
			LoraName:   loraName,
			LoraS3Path: loraPath,
			Caption:    caption,
			BlogName:   "",
			JobID:      jobID,
			Filename:   jobID + ".jpeg",
			NumSamples: 1,
		},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &domain.MLTask{TaskID: resp.TaskID, Status: domain.MLTaskStatus(resp.Status)}, nil
}

// GetTextToPicture reports a rendering job. ResultPath is the first image
// once the job succeeded.
func (ic *ImagesClient) GetTextToPicture(ctx context.Context, taskID string) (*domain.MLTask, error) {
	var resp textToPictureStatusResponse
	err := ic.c.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   textToPicturePath,
		Query:  url.Values{"task_id": {taskID}},
	}, &resp)
	if err != nil {
		return nil, err
	}
	task := &domain.MLTask{TaskID: resp.TaskID, Status: domain.MLTaskStatus(resp.Status)}
	if task.Status == domain.MLTaskSuccess && len(resp.Data.S3Paths) > 0 {
		task.ResultPath = resp.Data.S3Paths[0]
	}
	return task, nil
}
