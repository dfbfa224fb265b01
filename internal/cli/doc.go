// Package cli реализует инструмент командной строки Publica.
//
// # Обзор
//
// CLI — клиентская утилита для взаимодействия с Publica API.
// Работает через HTTP, не импортирует внутренние пакеты системы.
// CLI используется для регистрации, управления постами и просмотра
// дашборда.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для Publica API. Инкапсулирует все HTTP-запросы,
// Bearer-авторизацию, парсинг ответов (dataResponse, listResponse,
// errorResponse) и обработку ошибок.
//
//	client := cli.NewClient("http://localhost:8080", token)
//	posts, err := client.ListPosts(cli.ListPostsOpts{Status: "scheduled"})
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: publica post list --json | jq .
//
// ## Commands
//
// Cobra-команды организованы по ресурсам:
//   - auth: register, login, me
//   - post: list, create, show, update, delete
//   - dashboard: stats, upcoming
//
// Каждая группа создаётся через фабричную функцию (NewPostCmd и т.д.),
// принимающую clientFn и outputFn — замыкания для ленивого создания
// Client и Output после парсинга PersistentFlags.
//
// Токен передаётся флагом --token или переменной окружения
// PUBLICA_TOKEN; auth login печатает его в stdout.
package cli
