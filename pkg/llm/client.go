package llm

type DigestInput struct {
	Title  string
	Status string
	Stage  string
	Source string
}

type DigestResult struct {
	Paragraph     string
	Bullets       []string
	ModelUsed     string
	PromptVersion string
}

type DigestClient interface {
	Digest(proposals []DigestInput) (*DigestResult, error)
}
