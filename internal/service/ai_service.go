package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"learnmate_backend/internal/config"
	"learnmate_backend/internal/model"
	"learnmate_backend/internal/quiz"
)

type AIService struct {
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []AIChatMessage `json:"messages"`
	Stream   bool            `json:"stream,omitempty"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
		Delta   AIChatMessage `json:"delta"` // 流式响应
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// CourseOutline AI 提取的课程结构
type CourseOutline struct {
	Name          string                   `json:"name"`
	Description   string                   `json:"description"`
	Provider      string                   `json:"provider"`
	Duration      string                   `json:"duration"`
	Pace          string                   `json:"pace"`
	Objectives    []string                 `json:"objectives"`
	Prerequisites []string                 `json:"prerequisites"`
	MainSkills    []string                 `json:"mainSkills"`
	Milestones    []model.OutlineMilestone `json:"milestones"`
}

func (s *AIService) complete(ctx context.Context, messages []AIChatMessage) (string, error) {
	reqBody := ChatCompletionRequest{
		Model:    s.config.Model,
		Messages: messages,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}

	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("AI returned no choices")
	}
	return result.Choices[0].Message.Content, nil
}

// Chat 单轮阻塞式问答，context 为可选背景知识
func (s *AIService) Chat(ctx context.Context, prompt string, background string, history []AIChatMessage) (string, error) {
	messages := buildTutorMessages(prompt, background, history)
	return s.complete(ctx, messages)
}

// ChatStream SSE 流式问答，返回内容分片通道和错误通道
func (s *AIService) ChatStream(ctx context.Context, prompt string, background string, history []AIChatMessage) (<-chan string, <-chan error) {
	out := make(chan string)
	errChan := make(chan error, 1)

	messages := buildTutorMessages(prompt, background, history)
	reqBody := ChatCompletionRequest{
		Model:    s.config.Model,
		Messages: messages,
		Stream:   true,
	}
	jsonData, _ := json.Marshal(reqBody)

	go func() {
		defer close(out)
		defer close(errChan)

		req, err := http.NewRequestWithContext(ctx, "POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
		if err != nil {
			errChan <- err
			return
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

		resp, err := s.client.Do(req)
		if err != nil {
			errChan <- err
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			errChan <- fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
			return
		}

		reader := bufio.NewReader(resp.Body)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				if err != io.EOF {
					errChan <- err
				}
				break
			}

			line = strings.TrimSpace(line)
			if line == "" || !strings.HasPrefix(line, "data: ") {
				continue
			}

			data := strings.TrimPrefix(line, "data: ")
			if data == "[DONE]" {
				break
			}

			var streamResp ChatCompletionResponse
			if err := json.Unmarshal([]byte(data), &streamResp); err != nil {
				continue
			}

			if len(streamResp.Choices) > 0 {
				content := streamResp.Choices[0].Delta.Content
				if content != "" {
					out <- content
				}
			}
		}
	}()

	return out, errChan
}

func buildTutorMessages(prompt, background string, history []AIChatMessage) []AIChatMessage {
	systemContent := "你是一个专业的学习助教，请用清晰简洁的语言回答学生的问题。"
	if background != "" {
		systemContent = fmt.Sprintf("你是一个学习助教。请结合以下背景信息回答问题：\n\n%s", background)
	}

	messages := []AIChatMessage{{Role: "system", Content: systemContent}}
	for _, h := range history {
		messages = append(messages, AIChatMessage{Role: h.Role, Content: h.Content})
	}
	messages = append(messages, AIChatMessage{Role: "user", Content: prompt})
	return messages
}

// GenerateQuiz 按课程和难度生成选择题，返回已通过校验的题集
func (s *AIService) GenerateQuiz(ctx context.Context, courseName, difficulty string, count int) ([]quiz.Question, error) {
	prompt := fmt.Sprintf(
		`请为课程《%s》生成 %d 道 %s 难度的单项选择题，只输出 JSON 数组，不要任何其他文字。
每个元素的格式为：
{"question": "题目文本", "options": ["选项1", "选项2", "选项3", "选项4"], "correctAnswer": "A"}
要求：
1. options 必须恰好 4 项；
2. correctAnswer 必须是 A、B、C、D 之一，对应 options 的下标；
3. 题目覆盖课程的核心知识点，难度为 %s。`,
		courseName, count, difficulty, difficulty,
	)

	messages := []AIChatMessage{
		{Role: "system", Content: "你是一个出题助手，只输出合法 JSON，不输出任何解释。"},
		{Role: "user", Content: prompt},
	}

	raw, err := s.complete(ctx, messages)
	if err != nil {
		return nil, err
	}

	payload, err := extractJSONArray(raw)
	if err != nil {
		return nil, fmt.Errorf("quiz generation returned no JSON array: %w", err)
	}

	var questions []quiz.Question
	if err := json.Unmarshal([]byte(payload), &questions); err != nil {
		return nil, fmt.Errorf("quiz generation returned malformed JSON: %w", err)
	}

	if err := quiz.ValidateQuestions(questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// GenerateCourseOutline 从课程描述文本提取结构化大纲
func (s *AIService) GenerateCourseOutline(ctx context.Context, description string) (*CourseOutline, error) {
	prompt := fmt.Sprintf(
		`请从以下课程描述中提取结构化信息，只输出一个 JSON 对象，不要任何其他文字。
格式：
{"name": "...", "description": "...", "provider": "...", "duration": "...", "pace": "...",
 "objectives": ["..."], "prerequisites": ["..."], "mainSkills": ["..."],
 "milestones": [{"name": "第1周：...", "deadline": "2026-01-01"}]}
milestones 按周拆分学习计划，deadline 用 YYYY-MM-DD。无法确定的字段用空字符串或空数组。

课程描述：
%s`,
		description,
	)

	messages := []AIChatMessage{
		{Role: "system", Content: "你是一个信息提取助手，只输出合法 JSON，不输出任何解释。"},
		{Role: "user", Content: prompt},
	}

	raw, err := s.complete(ctx, messages)
	if err != nil {
		return nil, err
	}

	payload, err := extractJSONObject(raw)
	if err != nil {
		return nil, fmt.Errorf("outline extraction returned no JSON object: %w", err)
	}

	var outline CourseOutline
	if err := json.Unmarshal([]byte(payload), &outline); err != nil {
		return nil, fmt.Errorf("outline extraction returned malformed JSON: %w", err)
	}
	return &outline, nil
}

// GenerateQuote 生成一条学习主题的励志短句
func (s *AIService) GenerateQuote(ctx context.Context) (string, error) {
	messages := []AIChatMessage{
		{Role: "system", Content: "你是一个文案助手，只输出短句本身，不加引号和任何解释。"},
		{Role: "user", Content: "写一条 30 字以内的学习励志短句，鼓励坚持自学的人。"},
	}
	quote, err := s.complete(ctx, messages)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(quote), nil
}

// extractJSONArray 从模型输出中截取首个 JSON 数组，容忍 markdown 代码块包裹
func extractJSONArray(raw string) (string, error) {
	cleaned := stripCodeFence(raw)
	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start < 0 || end <= start {
		return "", fmt.Errorf("no JSON array found in output")
	}
	return cleaned[start : end+1], nil
}

// extractJSONObject 从模型输出中截取首个 JSON 对象
func extractJSONObject(raw string) (string, error) {
	cleaned := stripCodeFence(raw)
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("no JSON object found in output")
	}
	return cleaned[start : end+1], nil
}

func stripCodeFence(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	return strings.TrimSpace(cleaned)
}
