// Package model defines the dataset types shared by the loader, the
// catalog writer and the user interfaces.
//
// # Dataset
//
// A Dataset is one sparse matrix file. Its name and format are derived from
// the file name only:
//
//	ds := model.NewDataset("/data/sets/web-Google.mtx", &model.PathConfig{})
//	fmt.Println(ds.Name)   // web-Google
//	fmt.Println(ds.Format) // market
//
// Remote datasets get a computed local destination:
//
//	cfg := &model.PathConfig{DatasetsPath: "/data/{format}"}
//	ds, _ := model.NewRemoteDataset("https://host/mm/graph.csr", cfg)
//	fmt.Println(ds.Path) // /data/csr/graph.csr
//
// Available placeholders: {format}, {dataset}
package model
