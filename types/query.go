package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

type Validater interface {
	Validate() map[string]string
}

type AskParams struct {
	Question string `json:"question" validate:"required"`
}

func Validate(v Validater) map[string]string {
	return v.Validate()
}

func (params *AskParams) Validate() map[string]string {
	validate := validator.New()
	if err := validate.Struct(params); err != nil {
		errs := err.(validator.ValidationErrors)
		errors := make(map[string]string)
		for _, e := range errs {
			errors[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
		}
		return errors
	}
	return nil
}

type AskResponse struct {
	Answer  string     `json:"answer"`
	Context []Citation `json:"context"`
}

type UploadResponse struct {
	Message       string   `json:"message"`
	UploadedFiles []string `json:"uploaded_files"`
}

type PdfNamesResponse struct {
	PdfNames []string `json:"pdfNames"`
}

type PageTextResponse struct {
	Source    string   `json:"source"`
	Page      int      `json:"page"`
	Fragments []string `json:"fragments"`
}
