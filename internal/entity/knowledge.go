package entity

// KnowledgeItemType is the origin of a knowledge-base document.
type KnowledgeItemType string

const (
	KnowledgeItemURL  KnowledgeItemType = "url"
	KnowledgeItemFile KnowledgeItemType = "file"
	KnowledgeItemText KnowledgeItemType = "text"
)

func (t KnowledgeItemType) IsValid() bool {
	switch t {
	case KnowledgeItemURL, KnowledgeItemFile, KnowledgeItemText:
		return true
	default:
		return false
	}
}

// KnowledgeBaseLocator is how an agent's prompt config references a document.
type KnowledgeBaseLocator struct {
	Type      KnowledgeItemType `json:"type"`
	Name      string            `json:"name"`
	ID        string            `json:"id"`
	UsageMode string            `json:"usage_mode,omitempty"`
}

// KnowledgeBaseDocument is a vendor knowledge-base document.
type KnowledgeBaseDocument struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Type               KnowledgeItemType `json:"type,omitempty"`
	URL                string            `json:"url,omitempty"`
	ExtractedInnerHTML string            `json:"extracted_inner_html,omitempty"`
}

// KnowledgeItem is a knowledge-base entry as shown to the operator.
type KnowledgeItem struct {
	ID   string            `json:"id"`
	Name string            `json:"name"`
	Type KnowledgeItemType `json:"type"`
	URL  string            `json:"url,omitempty"`
}

type AddKnowledgeItemRequest struct {
	Type     KnowledgeItemType `json:"type"`
	Name     string            `json:"name,omitempty"`
	URL      string            `json:"url,omitempty"`
	Text     string            `json:"text,omitempty"`
	Filename string            `json:"-"`
	Content  []byte            `json:"-"`
}

type ListKnowledgeItemsResponse struct {
	Items []*KnowledgeItem `json:"items"`
}
