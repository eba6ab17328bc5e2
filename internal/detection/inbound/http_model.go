package inbound

import "encoding/json"

type DetectRequest struct {
	ID              string          `json:"id"`
	DetectorName    string          `json:"detectorName"`
	ChainID         int64           `json:"chainId"`
	Hash            string          `json:"hash"`
	ProtocolName    string          `json:"protocolName"`
	ProtocolAddress string          `json:"protocolAddress"`
	Trace           TraceRequest    `json:"trace"`
	AdditionalData  *AdditionalData `json:"additionalData,omitempty"`
}

type TraceRequest struct {
	BlockNumber     uint64                     `json:"blockNumber"`
	From            string                     `json:"from"`
	To              string                     `json:"to"`
	TransactionHash string                     `json:"transactionHash"`
	Input           string                     `json:"input"`
	Output          string                     `json:"output"`
	Gas             string                     `json:"gas"`
	GasUsed         string                     `json:"gasUsed"`
	Value           string                     `json:"value"`
	Pre             map[string]json.RawMessage `json:"pre"`
	Post            map[string]json.RawMessage `json:"post"`
	Logs            []LogRequest               `json:"logs"`
	Calls           []CallRequest              `json:"calls"`
}

type LogRequest struct {
	Address string   `json:"address"`
	Data    string   `json:"data"`
	Topics  []string `json:"topics"`
}

type CallRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Input   string `json:"input"`
	Output  string `json:"output"`
	GasUsed string `json:"gasUsed"`
	Value   string `json:"value"`
}

type AdditionalData struct {
	TwoFactorCode string `json:"twoFactorCode"`
	UserSecret    string `json:"userSecret"`
}

type DetectResponse struct {
	RequestID       string `json:"requestId"`
	ChainID         int64  `json:"chainId"`
	ProtocolName    string `json:"protocolName"`
	ProtocolAddress string `json:"protocolAddress"`
	RequiresStepUp  bool   `json:"requiresStepUp"`
	Blocked         bool   `json:"blocked"`
	Errored         bool   `json:"errored"`
	Message         string `json:"message"`
}

type EnrollmentRequest struct {
	Account string `json:"account"`
}

type EnrollmentResponse struct {
	Secret          string `json:"secret"`
	ProvisioningURI string `json:"provisioningUri"`
}

type EnrollmentVerifyRequest struct {
	Secret string `json:"secret"`
	Code   string `json:"code"`
}

type EnrollmentVerifyResponse struct {
	Valid bool `json:"valid"`
}
