package ports

import "fraudeda/domain/dataset"

// DatasetReader loads a tabular dataset from some source
type DatasetReader interface {
	ReadDataset() (*dataset.Dataset, error)
}
