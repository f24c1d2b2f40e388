package entity

type NativeDialogInfo struct {
	Type    string
	Message string
	URL     string
}

type Screenshot struct {
	Data   []byte
	Format string
	Width  int
	Height int
}
