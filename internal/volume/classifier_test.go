package volume

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want Kind
	}{
		{"/home/user/docs", Local},
		{"/tmp/scratch", Local},
		{"/Volumes/Macintosh HD/Users", Local},
		{"/Volumes/NAS/share", Network},
		{"/Volumes/Backup", Network},
		{`\\server\share\folder`, Network},
		{`C:\Users\me`, Local},
		{`c:\Users\me`, Local},
		{`D:\mapped`, Network},
		{`z:\mapped`, Network},
	}

	for _, tt := range tests {
		if got := Default.Classify(tt.path); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestDriveThreshold(t *testing.T) {
	c := Classifier{DriveThreshold: 'F'}
	if c.Classify(`E:\data`) != Local {
		t.Error("E: should be local below the threshold")
	}
	if c.Classify(`F:\data`) != Network {
		t.Error("F: should be network at the threshold")
	}
}
