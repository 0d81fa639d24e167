package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"brandvault/internal/models"
)

// FinalizeItem describes one successfully uploaded temp object for the
// server-side finalize step.
type FinalizeItem struct {
	TempPath     string           `json:"tempPath"`
	OriginalName string           `json:"originalName"`
	BaseName     string           `json:"baseName"`
	Extension    string           `json:"extension"`
	MimeType     string           `json:"mimeType"`
	Size         int64            `json:"size"`
	AssetType    models.AssetType `json:"assetType"`
	Tags         []string         `json:"tags,omitempty"`
}

// FinalizeRequest is the single phase-two request promoting a batch.
type FinalizeRequest struct {
	CategoryType models.CategoryType   `json:"categoryType"`
	CategoryID   string                `json:"categoryId"`
	ProjectPhase models.ProjectPhase   `json:"projectPhase,omitempty"`
	Origin       models.MaterialOrigin `json:"origin"`
	Items        []FinalizeItem        `json:"items"`
}

// FinalizeItemResult reports what happened to one item server-side.
type FinalizeItemResult struct {
	OriginalName string `json:"originalName"`
	AssetID      string `json:"assetId,omitempty"`
	Error        string `json:"error,omitempty"`
}

type FinalizeResponse struct {
	Success bool                 `json:"success"`
	Items   []FinalizeItemResult `json:"items,omitempty"`
	Message string               `json:"message,omitempty"`
}

// Transport submits a finalize request. Abstracted so tests can verify that
// an invalid batch never reaches the network.
type Transport interface {
	Finalize(ctx context.Context, req *FinalizeRequest) (*FinalizeResponse, error)
}

// BuildFinalizeRequest validates the target category and the batch, and
// assembles the phase-two payload. A non-empty error map means the batch must
// not be submitted: category type, id and origin are mandatory, projects
// additionally need a phase, and every item must have finished successfully.
func (p *Pipeline) BuildFinalizeRequest(
	categoryType models.CategoryType,
	categoryID string,
	phase models.ProjectPhase,
	origin models.MaterialOrigin,
) (*FinalizeRequest, map[string]string) {
	fieldErrors := make(map[string]string)

	switch categoryType {
	case models.CategoryTypeCampaign, models.CategoryTypeProject:
	default:
		fieldErrors["categoryType"] = "Selecione campanha ou empreendimento"
	}
	if categoryID == "" {
		fieldErrors["categoryId"] = "Selecione a categoria de destino"
	}
	if origin == "" {
		fieldErrors["origin"] = "Informe a origem do material"
	}
	if categoryType == models.CategoryTypeProject && phase == "" {
		fieldErrors["projectPhase"] = "Informe a fase do empreendimento"
	}

	items := p.Items()
	if len(items) == 0 {
		fieldErrors["items"] = "Nenhum arquivo para enviar"
	}
	for _, item := range items {
		switch item.Status {
		case StatusSuccess:
		case StatusError:
			fieldErrors["items"] = "Remova os arquivos com erro antes de concluir"
		default:
			fieldErrors["items"] = "Aguarde o término dos envios antes de concluir"
		}
	}

	if len(fieldErrors) > 0 {
		return nil, fieldErrors
	}

	req := &FinalizeRequest{
		CategoryType: categoryType,
		CategoryID:   categoryID,
		Origin:       origin,
	}
	if categoryType == models.CategoryTypeProject {
		req.ProjectPhase = phase
	}
	for _, item := range items {
		base, ext := SplitName(item.SafeName)
		req.Items = append(req.Items, FinalizeItem{
			TempPath:     item.TempPath,
			OriginalName: item.OriginalName,
			BaseName:     base,
			Extension:    ext,
			MimeType:     item.ContentType,
			Size:         item.Size,
			AssetType:    DetectAssetType(item.ContentType, ext),
		})
	}
	return req, nil
}

// Submit runs the validation gate and, only if it passes, performs the
// phase-two request. On success all items are destroyed.
func (p *Pipeline) Submit(
	ctx context.Context,
	transport Transport,
	categoryType models.CategoryType,
	categoryID string,
	phase models.ProjectPhase,
	origin models.MaterialOrigin,
) (*FinalizeResponse, map[string]string, error) {
	req, fieldErrors := p.BuildFinalizeRequest(categoryType, categoryID, phase, origin)
	if len(fieldErrors) > 0 {
		return nil, fieldErrors, nil
	}

	resp, err := transport.Finalize(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	p.mu.Lock()
	p.items = make(map[string]*Item)
	p.order = nil
	p.cancels = make(map[string]context.CancelFunc)
	p.mu.Unlock()

	return resp, nil, nil
}

// HTTPTransport posts finalize batches to the API with a bearer token.
type HTTPTransport struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func (t *HTTPTransport) Finalize(ctx context.Context, req *FinalizeRequest) (*FinalizeResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.BaseURL+"/api/assets/finalize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+t.Token)

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}

	httpResp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	var resp FinalizeResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, err
	}
	if httpResp.StatusCode != http.StatusOK {
		if resp.Message == "" {
			resp.Message = "Erro ao finalizar materiais"
		}
		return &resp, fmt.Errorf("finalize failed: %s", resp.Message)
	}
	return &resp, nil
}
