package serverutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	PatientId        string `validate:"required,uuid"`
	ClinicalQuestion string `validate:"required,min=10"`
	Sex              string `validate:"omitempty,oneof=male female other"`
}

func TestValidateRequest(t *testing.T) {
	valid := sampleRequest{
		PatientId:        "5c8f2c47-32cb-4f40-a3f5-1d14eadda853",
		ClinicalQuestion: "Best next step for suspected sepsis?",
		Sex:              "female",
	}
	assert.NoError(t, ValidateRequest(valid))
}

func TestValidateRequestMessages(t *testing.T) {
	tests := []struct {
		name string
		req  sampleRequest
		want string
	}{
		{
			name: "missing required field",
			req:  sampleRequest{ClinicalQuestion: "long enough question here"},
			want: "PatientId is required",
		},
		{
			name: "invalid uuid",
			req:  sampleRequest{PatientId: "not-a-uuid", ClinicalQuestion: "long enough question here"},
			want: "PatientId must be a valid UUID",
		},
		{
			name: "too short",
			req:  sampleRequest{PatientId: "5c8f2c47-32cb-4f40-a3f5-1d14eadda853", ClinicalQuestion: "short"},
			want: "ClinicalQuestion must be at least 10",
		},
		{
			name: "oneof violation",
			req: sampleRequest{
				PatientId:        "5c8f2c47-32cb-4f40-a3f5-1d14eadda853",
				ClinicalQuestion: "long enough question here",
				Sex:              "unknown",
			},
			want: "Sex must be one of [male female other]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.req)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
