package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

type JSONOutput struct {
	basePath string
	folder   string
	files    map[string]*os.File
}

type CSVOutput struct {
	basePath string
	folder   string
	files    map[string]*os.File
	writers  map[string]*csv.Writer
	headers  map[string][]string
}

func NewJSONOutput(basePath, folder string) *JSONOutput {
	return &JSONOutput{
		basePath: basePath,
		folder:   folder,
		files:    make(map[string]*os.File),
	}
}

func NewCSVOutput(basePath, folder string) *CSVOutput {
	return &CSVOutput{
		basePath: basePath,
		folder:   folder,
		files:    make(map[string]*os.File),
		writers:  make(map[string]*csv.Writer),
		headers:  make(map[string][]string),
	}
}

func topicFile(basePath, folder, topic, name string) (string, error) {
	dir := filepath.Join(basePath, folder, topic)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// decodeRecord keeps numbers as json.Number so integers round-trip untouched.
func decodeRecord(msg []byte) (map[string]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()
	var record map[string]interface{}
	if err := dec.Decode(&record); err != nil {
		return nil, err
	}
	return record, nil
}

func (j *JSONOutput) WriteMessage(topic string, msg []byte) error {
	if !json.Valid(msg) {
		return fmt.Errorf("invalid JSON message for topic %s", topic)
	}

	file, ok := j.files[topic]
	if !ok {
		path, err := topicFile(j.basePath, j.folder, topic, "data.json")
		if err != nil {
			return err
		}
		file, err = os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create file for topic %s: %w", topic, err)
		}
		j.files[topic] = file
	}

	if _, err := file.Write(msg); err != nil {
		return fmt.Errorf("failed to write message to topic %s: %w", topic, err)
	}
	_, err := file.WriteString("\n")
	return err
}

func (j *JSONOutput) Close() error {
	var lastErr error
	for _, file := range j.files {
		if err := file.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (c *CSVOutput) WriteMessage(topic string, msg []byte) error {
	record, err := decodeRecord(msg)
	if err != nil {
		return err
	}

	csvWriter, ok := c.writers[topic]
	if !ok {
		path, err := topicFile(c.basePath, c.folder, topic, "data.csv")
		if err != nil {
			return err
		}
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create file for topic %s: %w", topic, err)
		}
		c.files[topic] = file
		csvWriter = csv.NewWriter(file)
		c.writers[topic] = csvWriter

		// header comes from the first record of the topic
		headers := c.getHeaders(record)
		if err := csvWriter.Write(headers); err != nil {
			return err
		}
		c.headers[topic] = headers
	}

	row := make([]string, len(c.headers[topic]))
	for i, header := range c.headers[topic] {
		if value, ok := record[header]; ok {
			row[i] = fmt.Sprintf("%v", value)
		}
	}

	if err := csvWriter.Write(row); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

func (c *CSVOutput) getHeaders(record map[string]interface{}) []string {
	headers := make([]string, 0, len(record))
	for key := range record {
		headers = append(headers, key)
	}
	sort.Strings(headers)
	return headers
}

func (c *CSVOutput) Close() error {
	var lastErr error
	for topic, csvWriter := range c.writers {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil {
			lastErr = err
		}
		if err := c.files[topic].Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
