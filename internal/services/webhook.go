package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/taskhive-dev/taskhive/internal/models"
)

type DiscordWebhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type DiscordEmbed struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Color       int                   `json:"color"`
	Fields      []DiscordWebhookField `json:"fields"`
	Timestamp   string                `json:"timestamp"`
}

type DiscordWebhookRequest struct {
	Username string         `json:"username"`
	Embeds   []DiscordEmbed `json:"embeds"`
}

type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type SlackAttachment struct {
	Color     string       `json:"color"`
	Title     string       `json:"title"`
	Text      string       `json:"text"`
	Fields    []SlackField `json:"fields"`
	Timestamp int64        `json:"ts"`
}

type SlackWebhookRequest struct {
	Username    string            `json:"username"`
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments"`
}

const (
	ColorBlue  = 3447003 // #3498DB - task created
	ColorGreen = 65280   // #00FF00 - task done

	Username = "TaskHive"
)

func SendTaskCreatedNotification(project models.Project, task models.Task) error {
	return sendTaskNotification(project, task, "New Task", ColorBlue, "#3498DB")
}

func SendTaskCompletedNotification(project models.Project, task models.Task) error {
	return sendTaskNotification(project, task, "Task Completed", ColorGreen, "good")
}

func sendTaskNotification(project models.Project, task models.Task, title string, discordColor int, slackColor string) error {
	if project.DiscordWebhook != "" {
		payload := DiscordWebhookRequest{
			Username: Username,
			Embeds: []DiscordEmbed{
				{
					Title:       fmt.Sprintf("%s: %s", title, task.Title),
					Description: task.Description,
					Color:       discordColor,
					Fields: []DiscordWebhookField{
						{Name: "Project", Value: project.Title, Inline: true},
						{Name: "Priority", Value: task.Priority, Inline: true},
						{Name: "Status", Value: task.Status, Inline: true},
					},
					Timestamp: time.Now().Format(time.RFC3339),
				},
			},
		}
		if err := postJSON(project.DiscordWebhook, payload); err != nil {
			return fmt.Errorf("discord: %w", err)
		}
	}

	if project.SlackWebhook != "" {
		payload := SlackWebhookRequest{
			Username: Username,
			Text:     fmt.Sprintf("%s in *%s*", title, project.Title),
			Attachments: []SlackAttachment{
				{
					Color: slackColor,
					Title: task.Title,
					Text:  task.Description,
					Fields: []SlackField{
						{Title: "Priority", Value: task.Priority, Short: true},
						{Title: "Status", Value: task.Status, Short: true},
					},
					Timestamp: time.Now().Unix(),
				},
			},
		}
		if err := postJSON(project.SlackWebhook, payload); err != nil {
			return fmt.Errorf("slack: %w", err)
		}
	}

	return nil
}

func postJSON(url string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: 10 * time.Second}

	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
