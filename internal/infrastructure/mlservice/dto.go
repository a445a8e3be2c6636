package mlservice

type initPersonaRequest struct {
	LoraName string   `json:"lora_name"`
	S3Paths  []string `json:"s3_paths"`
	JobID    string   `json:"job_id"`
	BlogName string   `json:"blog_name"`
}

type textToPictureRequest struct {
	LoraName   string `json:"lora_name"`
	LoraS3Path string `json:"lora_s3_path"`
	Caption    string `json:"caption"`
	BlogName   string `json:"blog_name"`
	JobID      string `json:"job_id"`
	Filename   string `json:"filename"`
	NumSamples int    `json:"num_samples"`
}

type taskResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

type initPersonaStatusResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
	Data   struct {
		S3ArtifactPaths []string `json:"s3_artifact_paths"`
	} `json:"data"`
}

type textToPictureStatusResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
	Data   struct {
		S3Paths []string `json:"s3_paths"`
	} `json:"data"`
}

type bioData struct {
	Name   string `json:"name"`
	Topics string `json:"topics"`
	Text   string `json:"text"`
}

type bioRequest struct {
	Data   bioData        `json:"data"`
	Config map[string]any `json:"config"`
}

type bioResponse struct {
	Text *string `json:"text"`
}
