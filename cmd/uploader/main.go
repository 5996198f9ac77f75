package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/familyalbum/server/internal/uploadqueue"
)

// uploader pushes local photos to the album server one file at a time, the
// same sequential flow the admin console uses. Failed files can be retried
// with -retry.
func main() {
	server := flag.String("server", "http://localhost:5000", "album server base URL")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password")
	caption := flag.String("caption", "", "caption applied to every uploaded photo")
	events := flag.String("events", "", "comma-separated event names")
	retry := flag.Bool("retry", false, "retry failed uploads once")
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		log.Fatal("usage: uploader [flags] <file> [file...]")
	}
	if *password == "" {
		log.Fatal("admin password required (-password or ADMIN_PASSWORD)")
	}

	client := &http.Client{Timeout: 5 * time.Minute}

	cookie, err := login(client, *server, *password)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}

	files := make([]uploadqueue.File, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			log.Fatalf("Cannot read %s: %v", p, err)
		}
		files = append(files, uploadqueue.File{Name: p, Size: info.Size()})
	}

	queue := uploadqueue.New(files)
	queue = uploadAll(client, *server, cookie, queue, *caption, *events)

	if *retry {
		for _, item := range uploadqueue.RetryTargets(queue) {
			queue = uploadqueue.Requeue(queue, item.ID)
		}
		queue = uploadAll(client, *server, cookie, queue, *caption, *events)
	}

	summary := uploadqueue.Summarize(queue)
	fmt.Printf("\n%d uploaded, %d failed (of %d)\n",
		summary.SuccessCount, summary.FailureCount, summary.TotalCount)
	for _, item := range queue {
		if item.Status == uploadqueue.StatusError {
			fmt.Printf("  failed: %s (%s)\n", item.Filename, item.ErrorReason)
		}
	}

	if summary.FailureCount > 0 {
		os.Exit(1)
	}
}

// uploadAll runs the queue sequentially, skipping items already settled
func uploadAll(client *http.Client, server, cookie string, queue []uploadqueue.Item, caption, events string) []uploadqueue.Item {
	for _, item := range queue {
		if item.Status != uploadqueue.StatusQueued {
			continue
		}

		queue = uploadqueue.SetProgress(queue, item.ID, 0, uploadqueue.StatusUploading)
		fmt.Printf("Uploading %s...\n", item.Filename)

		storedPath, err := uploadFile(client, server, cookie, item.Filename, caption, events)
		if err != nil {
			queue = uploadqueue.MarkError(queue, item.ID, err.Error())
			fmt.Printf("  error: %v\n", err)
			continue
		}

		queue = uploadqueue.MarkSuccess(queue, item.ID, storedPath)
		fmt.Printf("  done: %s\n", storedPath)
	}
	return queue
}

func login(client *http.Client, server, password string) (string, error) {
	body, _ := json.Marshal(map[string]string{"password": password})
	resp, err := client.Post(server+"/api/admin/auth", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("server rejected login: status %d", resp.StatusCode)
	}
	for _, c := range resp.Cookies() {
		if c.Name == "admin_session" {
			return c.Value, nil
		}
	}
	return "", fmt.Errorf("no session cookie in login response")
}

func uploadFile(client *http.Client, server, cookie, path, caption, events string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("files", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	if caption != "" {
		writer.WriteField("caption", caption)
	}
	if events != "" {
		writer.WriteField("eventNames", events)
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, server+"/api/admin/upload", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: "admin_session", Value: cookie})

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload rejected: status %d", resp.StatusCode)
	}

	var result struct {
		Uploaded []struct {
			ID  string `json:"id"`
			Src string `json:"src"`
		} `json:"uploaded"`
		Failed []struct {
			FileName string `json:"fileName"`
			Reason   string `json:"reason"`
		} `json:"failed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if len(result.Failed) > 0 {
		return "", fmt.Errorf("%s", result.Failed[0].Reason)
	}
	if len(result.Uploaded) == 0 {
		return "", fmt.Errorf("server reported no uploaded files")
	}
	return result.Uploaded[0].Src, nil
}
