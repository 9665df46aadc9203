package service

import (
	"context"
	"hash/fnv"

	"github.com/suitewaste/deskshell/internal/core/ports"
)

// categories the stub classifier rotates through. A real model sits behind
// the same port.
var stubCategories = []ports.ClassificationResult{
	{Name: "Assorted E-Waste", Category: "E-Waste", EstimatedPrice: "R 2,500"},
	{Name: "Scrap Metal", Category: "Metals", EstimatedPrice: "R 1,200"},
	{Name: "Mixed Plastics", Category: "Plastics", EstimatedPrice: "R 600"},
	{Name: "Paper & Cardboard", Category: "Paper", EstimatedPrice: "R 350"},
}

// StubClassifier deterministically maps an image payload to a canned result.
type StubClassifier struct{}

func NewStubClassifier() *StubClassifier { return &StubClassifier{} }

func (c *StubClassifier) Classify(_ context.Context, image string) (ports.ClassificationResult, error) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(image))
	return stubCategories[int(h.Sum32())%len(stubCategories)], nil
}
